package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/c4x/pkg/buildinfo"
	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/pipeline"
	"github.com/matzehuels/c4x/pkg/theme"
)

// RenderRequest is the body of POST /v1/render. Layout requests use the
// same shape and ignore Format.
type RenderRequest struct {
	Source       string `json:"source"`
	Theme        string `json:"theme,omitempty"`
	Format       string `json:"format,omitempty"` // svg (default), dot, graphviz or json
	Detailed     bool   `json:"detailed,omitempty"`
	NoBackground bool   `json:"no_background,omitempty"`
	IDPrefix     string `json:"id_prefix,omitempty"`
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Source string `json:"source"`
}

// Diagnostic describes one problem in a diagram.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidateResponse is returned by POST /v1/validate. Invalid diagrams are
// reported with status 200 and Valid false.
type ValidateResponse struct {
	Valid         bool         `json:"valid"`
	View          string       `json:"view,omitempty"`
	Elements      int          `json:"elements"`
	Relationships int          `json:"relationships"`
	Boundaries    int          `json:"boundaries"`
	Diagnostics   []Diagnostic `json:"diagnostics"`
}

// ThemeInfo is one entry of GET /v1/themes.
type ThemeInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatGraphviz: "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON:     "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	all := theme.All()
	out := make([]ThemeInfo, len(all))
	for i, t := range all {
		out[i] = ThemeInfo{Name: t.Name, DisplayName: t.DisplayName, Description: t.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		s.fail(w, r, err)
		return
	}
	s.compile(w, r, req, req.Format)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !decode(w, r, &req) {
		return
	}
	s.compile(w, r, req, pipeline.FormatJSON)
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request, req RenderRequest, format string) {
	if err := errors.ValidateSource(req.Source); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.opts.Compile
	opts.Formats = []string{format}
	opts.Detailed = req.Detailed
	opts.NoBackground = req.NoBackground
	opts.IDPrefix = req.IDPrefix
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	if req.Theme != "" {
		opts.Theme = req.Theme
		opts.CustomTheme = nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, req.Source, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := errors.ValidateSource(req.Source); err != nil {
		s.fail(w, r, err)
		return
	}

	m, err := s.runner.Validate(r.Context(), req.Source, s.opts.Compile.Workspace)
	if err != nil {
		if !pipeline.IsUserError(err) {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ValidateResponse{
			Diagnostics: []Diagnostic{diagnosticOf(err)},
		})
		return
	}

	v := m.View()
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:         true,
		View:          string(v.Kind),
		Elements:      v.Count(),
		Relationships: len(v.Relationships),
		Boundaries:    len(v.Boundaries),
		Diagnostics:   []Diagnostic{},
	})
}

func diagnosticOf(err error) Diagnostic {
	d := Diagnostic{
		Kind:    errors.KindOf(err).String(),
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}
	if pos, ok := errors.PosOf(err); ok {
		d.Line, d.Column = pos.Line, pos.Column
	}
	return d
}

// decode reads a JSON body into v, writing the error response itself when
// it fails.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
