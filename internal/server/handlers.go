package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/matzehuels/bandfill/pkg/buildinfo"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/pipeline"
	"github.com/matzehuels/bandfill/pkg/render"
)

// FillRequest is the body of POST /v1/fill. Exactly one of Template and
// TemplateName is set; Records and Data are optional and exclusive.
type FillRequest struct {
	Template       string          `json:"template,omitempty"`
	TemplateFormat string          `json:"template_format,omitempty"`
	TemplateName   string          `json:"template_name,omitempty"`
	Records        json.RawMessage `json:"records,omitempty"`
	Data           string          `json:"data,omitempty"`
	DataFormat     string          `json:"data_format,omitempty"`
	Formats        []string        `json:"formats,omitempty"`
	FontSize       float64         `json:"font_size,omitempty"`
	Outlines       bool            `json:"outlines,omitempty"`
	Refresh        bool            `json:"refresh,omitempty"`
}

// FillResponse is the JSON answer of POST /v1/fill. Artifacts are
// base64-encoded.
type FillResponse struct {
	Name         string            `json:"name"`
	FillID       string            `json:"fill_id"`
	DocumentHash string            `json:"document_hash"`
	Records      int               `json:"records"`
	Pages        int               `json:"pages"`
	Cache        CacheStatus       `json:"cache"`
	Artifacts    map[string][]byte `json:"artifacts"`
}

// CacheStatus tells which stages were served from the cache.
type CacheStatus struct {
	Document bool `json:"document"`
	Render   bool `json:"render"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": render.Formats})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeFill(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw := r.URL.Query().Get("raw")
	if raw != "" {
		if err := pipeline.ValidateFormat(raw); err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Formats = []string{raw}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Fill-ID", res.FillID)
	if raw != "" {
		w.Header().Set("Content-Type", render.ContentType(raw))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifacts[raw])
		return
	}
	writeJSON(w, http.StatusOK, FillResponse{
		Name:         res.Document.Name,
		FillID:       res.FillID,
		DocumentHash: res.DocumentHash,
		Records:      res.Stats.Records,
		Pages:        res.Stats.Pages,
		Cache:        CacheStatus{Document: res.CacheInfo.DocumentHit, Render: res.CacheInfo.RenderHit},
		Artifacts:    res.Artifacts,
	})
}

func (s *Server) decodeFill(w http.ResponseWriter, r *http.Request) (*FillRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	var req FillRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request: %v", err)
	}
	return &req, nil
}

// options converts a request into pipeline options. Named templates are
// resolved under the template directory and may not escape it.
func (s *Server) options(req *FillRequest) (pipeline.Options, error) {
	opts := pipeline.Options{
		Template:       req.Template,
		TemplateFormat: req.TemplateFormat,
		DataFormat:     req.DataFormat,
		Formats:        req.Formats,
		FontSize:       req.FontSize,
		Outlines:       req.Outlines,
		Refresh:        req.Refresh,
	}

	if req.TemplateName != "" {
		if s.templateDir == "" {
			return opts, errs.New(errs.ErrCodeUnsupported, "named templates are not enabled on this server")
		}
		if err := errs.ValidatePath(req.TemplateName); err != nil {
			return opts, err
		}
		opts.TemplatePath = filepath.Join(s.templateDir, req.TemplateName)
	}

	records := bytes.TrimSpace(req.Records)
	switch {
	case len(records) > 0 && req.Data != "":
		return opts, errs.New(errs.ErrCodeInvalidInput, "records and data are mutually exclusive")
	case len(records) > 0 && !bytes.Equal(records, []byte("null")):
		opts.Data = records
		opts.DataFormat = "json"
	case req.Data != "":
		opts.Data = []byte(req.Data)
	}
	return opts, nil
}
