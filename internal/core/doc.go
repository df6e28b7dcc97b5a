// Package core provides the tabular cleaning pipeline behind the upload UI
// and the sweep CLI.
//
// This package holds all domain logic independent of any transport. Web
// handlers, the CLI and tests use it unchanged.
//
// # Pipeline
//
// Each uploaded file goes through the same stages:
//
//  1. [Load] parses a .csv or .xlsx [UploadedFile] into a [Table]. Other
//     extensions fail with [ErrUnsupportedFormat]; malformed content fails
//     with a [*ParseError].
//  2. [Clean] removes duplicate rows and fills missing numeric cells with
//     the column mean, always deduplicating first.
//  3. [Project] keeps a subset of columns in their original order.
//  4. [Preview] and [NumericSummary] produce read-only views for display.
//  5. [Export] serializes the result to CSV or XLSX as an [ExportArtifact].
//
// Tables are immutable: every stage returns a new Table.
//
// # Workspaces
//
// A [Workspace] is the processing context of one file. It keeps the source
// table and a [Recipe] of the user's choices, and derives every view from
// the source on demand. [Service] owns the workspaces, loads batches with
// per-file failure isolation, and evicts idle workspaces via its janitor.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE008: File errors (size, format, parsing, file count)
//   - UPL002-UPL005: Upload errors (busy, not found, cancelled, timeout)
//   - VAL005-VAL007: Request option errors
package core
