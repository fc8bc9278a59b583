package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/conneroisu/weaver/internal/compose"
	"github.com/conneroisu/weaver/internal/renderer"
	"github.com/conneroisu/weaver/internal/version"
)

// dataOnlyParam is the query flag that switches the content route to
// data-only output.
const dataOnlyParam = "data"

// handleContent serves GET /{component}/{view}/.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) error {
	component, view, ok := s.registry.View(r.PathValue("component"), r.PathValue("view"))
	if !ok {
		http.NotFound(w, r)
		return nil
	}

	dataOnly := r.URL.Query().Get(dataOnlyParam) == "only"

	req := compose.Request{
		URL:       r.URL.RequestURI(),
		Params:    s.extractParams(component, view, r),
		DataOnly:  dataOnly,
		NestLevel: nestLevel(r),
	}

	result, err := s.pipeline.Compose(r.Context(), component, view, req)
	if err != nil {
		return err
	}

	if result.CacheHit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	w.Header().Set("Content-Type", result.ContentType)
	_, err = w.Write(result.Body)
	return err
}

// handleData serves GET /{component}/{view}/data by re-invoking the
// content route with the data-only flag forced on.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	q.Set(dataOnlyParam, "only")
	r.URL.RawQuery = q.Encode()
	r.URL.Path = "/" + r.PathValue("component") + "/" + r.PathValue("view") + "/"
	return s.handleContent(w, r)
}

// viewManifest is the public view configuration exposed over the
// manifest route. Template sources, factories and development-only
// settings are deliberately absent.
type viewManifest struct {
	Component  string              `json:"component"`
	View       string              `json:"view"`
	Technology string              `json:"technology"`
	Blueprint  bool                `json:"blueprint"`
	CacheTTLMs int64               `json:"cacheTtlMs"`
	Params     compose.ParamSchema `json:"params"`
	SampleData map[string]any      `json:"sampleData,omitempty"`
}

// handleManifest serves GET /{component}/{view}/manifest.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) error {
	component, view, ok := s.registry.View(r.PathValue("component"), r.PathValue("view"))
	if !ok {
		http.NotFound(w, r)
		return nil
	}

	params := s.pipeline.MergedParams(component, view)

	ttl := view.CacheTTL
	if ttl <= 0 {
		ttl = s.config.CacheTTL()
	}

	paramTypes := make(map[string]string, len(params))
	for name, param := range params {
		paramTypes[name] = param.Type
	}

	manifest := viewManifest{
		Component:  component.Path,
		View:       view.Name,
		Technology: view.Technology,
		Blueprint:  view.Blueprint,
		CacheTTLMs: ttl.Milliseconds(),
		Params:     params,
		SampleData: renderer.SampleData(paramTypes),
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(manifest)
}

// handleHealth serves GET /health with a fixed liveness payload.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": version.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// extractParams admits request values named by the merged parameter
// schema, from the source each declaration names.
func (s *Server) extractParams(component *compose.Component, view *compose.View, r *http.Request) map[string]string {
	schema := s.pipeline.MergedParams(component, view)
	params := make(map[string]string, len(schema))
	for name, param := range schema {
		var value string
		switch param.Source {
		case "header":
			value = r.Header.Get(name)
		case "path":
			value = r.PathValue(name)
		default:
			value = r.URL.Query().Get(name)
		}
		if value != "" {
			params[name] = value
		}
	}
	return params
}

// nestLevel reads the nesting depth a composing parent passes down.
// Top-level requests default to 0.
func nestLevel(r *http.Request) int {
	raw := r.URL.Query().Get("nest")
	if raw == "" {
		return 0
	}
	level, err := strconv.Atoi(raw)
	if err != nil || level < 0 {
		return 0
	}
	return level
}

// readTemplate loads template source from disk.
func readTemplate(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
