package core

// streaming.go normalises the byte encoding of uploaded CSV text.
//
// Spreadsheet tools on Windows like to prefix a byte order mark and
// occasionally save in UTF-16. The decoder chain handles both:
//
//   - A UTF-8 BOM is stripped.
//   - A UTF-16 (LE or BE) BOM switches decoding to UTF-16.
//   - Without a BOM the input is read as UTF-8 and invalid bytes become U+FFFD.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WrapForDecoding returns a reader yielding valid UTF-8 without a BOM.
func WrapForDecoding(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

