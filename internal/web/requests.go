package web

// requests.go decodes and validates client-supplied options. Struct rules
// are declared as validator tags; limits that come from configuration are
// checked with Var so they follow the running config.

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/datasweep/internal/core"
)

// recipeRequest is the body of PUT /api/files/{id}/recipe and the decoded
// recipe form. Nil pointers and an empty format keep the current values;
// a nil Columns keeps every column.
type recipeRequest struct {
	RemoveDuplicates bool     `json:"remove_duplicates"`
	FillMissing      bool     `json:"fill_missing"`
	Columns          []string `json:"columns" validate:"omitempty,max=10000,dive,required,max=1024"`
	PreviewRows      *int     `json:"preview_rows" validate:"omitempty,gte=0"`
	ChartLimit       *int     `json:"chart_limit" validate:"omitempty,gte=1"`
	Format           string   `json:"format" validate:"omitempty,oneof=csv excel xlsx CSV EXCEL XLSX"`
	ShowChart        bool     `json:"show_chart"`
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError flattens validator errors into one invalid option error.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", errInvalidOption, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", errInvalidOption, strings.Join(parts, "; "))
}

// checkLimit validates n against an inclusive range.
func (s *Server) checkLimit(field string, n, lo, hi int) error {
	if err := s.validate.Var(n, fmt.Sprintf("gte=%d,lte=%d", lo, hi)); err != nil {
		return fmt.Errorf("%w: %s must be between %d and %d", errInvalidOption, field, lo, hi)
	}
	return nil
}

// recipe validates req and merges it over current.
func (s *Server) recipe(req recipeRequest, current core.Recipe) (core.Recipe, error) {
	if err := s.validate.Struct(req); err != nil {
		return core.Recipe{}, validationError(err)
	}

	r := core.Recipe{
		RemoveDuplicates: req.RemoveDuplicates,
		FillMissing:      req.FillMissing,
		Columns:          req.Columns,
		PreviewRows:      current.PreviewRows,
		ChartLimit:       current.ChartLimit,
		Format:           current.Format,
		ShowChart:        req.ShowChart,
	}

	if req.PreviewRows != nil {
		if err := s.checkLimit("preview_rows", *req.PreviewRows, 0, s.cfg.Pipeline.MaxPreviewRows); err != nil {
			return core.Recipe{}, err
		}
		r.PreviewRows = *req.PreviewRows
	}
	if req.ChartLimit != nil {
		if err := s.checkLimit("chart_limit", *req.ChartLimit, 1, s.cfg.Pipeline.MaxChartLimit); err != nil {
			return core.Recipe{}, err
		}
		r.ChartLimit = *req.ChartLimit
	}
	if req.Format != "" {
		f, err := core.ParseExportFormat(req.Format)
		if err != nil {
			return core.Recipe{}, err
		}
		r.Format = f
	}
	return r, nil
}

// recipeForm decodes the workspace page's option form. The hidden
// columns_present field distinguishes "no boxes ticked" from "field absent".
func recipeForm(r *http.Request) (recipeRequest, error) {
	if err := r.ParseForm(); err != nil {
		return recipeRequest{}, fmt.Errorf("%w: %v", errInvalidOption, err)
	}

	req := recipeRequest{
		RemoveDuplicates: r.PostForm.Get("remove_duplicates") != "",
		FillMissing:      r.PostForm.Get("fill_missing") != "",
		Format:           r.PostForm.Get("format"),
		ShowChart:        r.PostForm.Get("show_chart") != "",
	}
	if r.PostForm.Get("columns_present") != "" {
		req.Columns = append([]string{}, r.PostForm["columns"]...)
	}

	for field, dst := range map[string]**int{"preview_rows": &req.PreviewRows, "chart_limit": &req.ChartLimit} {
		raw := strings.TrimSpace(r.PostForm.Get(field))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return recipeRequest{}, fmt.Errorf("%w: %s must be a whole number", errInvalidOption, field)
		}
		*dst = &n
	}
	return req, nil
}

// intQuery reads an integer query parameter. def is returned when the
// parameter is absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", errInvalidOption, name)
	}
	return n, nil
}
