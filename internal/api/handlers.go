package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/grammar"
	"github.com/inkdown/inkdown/internal/pipeline"
	"github.com/inkdown/inkdown/internal/render/html"
)

type diagnosticPayload struct {
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

type renderResponse struct {
	HTML        string              `json:"html"`
	Diagnostics []diagnosticPayload `json:"diagnostics"`
}

type outlineEntry struct {
	Title    string         `json:"title"`
	Anchor   string         `json:"anchor"`
	Children []outlineEntry `json:"children,omitempty"`
}

type outlineResponse struct {
	Outline     []outlineEntry      `json:"outline"`
	Diagnostics []diagnosticPayload `json:"diagnostics"`
}

// handleRender parses the request body as source text and returns the
// rendered page. Imports are resolved relative to the optional "path"
// query parameter.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	result, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, result.Document); err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, renderResponse{
		HTML:        buf.String(),
		Diagnostics: diagnostics(result.Diagnostics),
	})
}

// handleOutline parses the request body and returns the section tree.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	result, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, outlineResponse{
		Outline:     outline(result.Document.Blocks),
		Diagnostics: diagnostics(result.Diagnostics),
	})
}

func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	if len(data) == 0 {
		jsonError(w, "empty body", http.StatusBadRequest)
		return nil, false
	}
	path := r.URL.Query().Get("path")
	return pipeline.ParseString(string(data), path, s.log), true
}

func outline(blocks []document.Block) []outlineEntry {
	var entries []outlineEntry
	for _, block := range blocks {
		section, ok := block.(*document.Section)
		if !ok {
			continue
		}
		entries = append(entries, outlineEntry{
			Title:    document.PlainText(section.Header.Line),
			Anchor:   section.Header.Anchor,
			Children: outline(section.Blocks),
		})
	}
	return entries
}

func diagnostics(diags []grammar.Diagnostic) []diagnosticPayload {
	out := make([]diagnosticPayload, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnosticPayload{
			Path:    d.Path,
			Line:    d.Line,
			Col:     d.Col,
			Message: d.Msg,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
