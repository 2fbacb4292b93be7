package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bandfill/pkg/band"
	"github.com/matzehuels/bandfill/pkg/cache"
	"github.com/matzehuels/bandfill/pkg/dataset"
	"github.com/matzehuels/bandfill/pkg/fill"
	"github.com/matzehuels/bandfill/pkg/observability"
	"github.com/matzehuels/bandfill/pkg/render"
	"github.com/matzehuels/bandfill/pkg/template"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Filled is a filled document with the id of the pass that produced it.
type Filled struct {
	Document *fill.Document
	FillID   string
	Hash     string
	Records  int
}

// Execute runs the complete load → fill → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Load
	loadStart := time.Now()
	spec, tplRaw, err := LoadTemplate(ctx, opts)
	if err != nil {
		return nil, err
	}
	ds, dataRaw, err := LoadData(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Records = ds.Len()

	r.Logger.Info("loaded template",
		"report", spec.Name,
		"records", ds.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Fill
	fillStart := time.Now()
	key := r.Keyer.DocumentKey(cache.Hash(tplRaw), cache.Hash(dataRaw), cache.DocumentKeyOpts{Version: DocumentVersion})
	filled, hit, err := r.FillWithCacheInfo(ctx, key, spec, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	result.Document = filled.Document
	result.DocumentHash = filled.Hash
	result.FillID = filled.FillID
	result.Stats.FillTime = time.Since(fillStart)
	result.Stats.Pages = len(filled.Document.Pages)
	result.Stats.Elements = filled.Document.ElementCount()
	result.CacheInfo.DocumentHit = hit

	r.Logger.Info("filled report",
		"pages", result.Stats.Pages,
		"elements", result.Stats.Elements,
		"cached", hit,
		"duration", result.Stats.FillTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, filled, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FillWithCacheInfo fills spec over ds, reusing the document cached under
// key unless opts.Refresh is set, and reports whether the cache was hit.
func (r *Runner) FillWithCacheInfo(ctx context.Context, key string, spec *template.Spec, ds *dataset.Dataset, opts Options) (*Filled, bool, error) {
	r.applyLogger(&opts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if filled, err := decodeFilled(data); err == nil {
				filled.Records = ds.Len()
				observability.Cache().OnCacheHit(ctx, "document")
				return filled, true, nil
			}
			// If deserialization fails, fall through to refill
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	filled, err := Fill(ctx, spec, ds, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := render.RenderJSON(filled.Document, render.WithJSONCompact(), render.WithJSONFillID(filled.FillID)); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err == nil {
			observability.Cache().OnCacheSet(ctx, "document", len(data))
		}
	}
	return filled, false, nil
}

// Fill runs one fill pass of spec over ds without caching.
func Fill(ctx context.Context, spec *template.Spec, ds *dataset.Dataset, opts Options) (*Filled, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	hooks := observability.Pipeline()
	hooks.OnFillStart(ctx, spec.Name, ds.Len())
	start := time.Now()

	filled, err := fillDocument(ctx, spec, ds, logger)
	pages := 0
	if filled != nil {
		pages = len(filled.Document.Pages)
	}
	hooks.OnFillComplete(ctx, spec.Name, pages, time.Since(start), err)
	return filled, err
}

func fillDocument(ctx context.Context, spec *template.Spec, ds *dataset.Dataset, logger *log.Logger) (*Filled, error) {
	vars, err := spec.CalculatorVariables()
	if err != nil {
		return nil, err
	}
	calc, err := dataset.NewCalculator(ds, spec.GroupKeys(), vars...)
	if err != nil {
		return nil, err
	}
	report, err := template.Compile(spec, calc)
	if err != nil {
		return nil, err
	}

	doc := fill.NewDocument(report.Name)
	id := uuid.NewString()
	f, err := fill.New(report,
		fill.WithCalculator(calc),
		fill.WithResolver(band.NewResolver(doc, calc, template.Bands(report)...)),
		fill.WithSink(doc),
		fill.WithLogger(logger),
		fill.WithID(id),
	)
	if err != nil {
		return nil, err
	}
	ds.Rewind()
	if err := f.Fill(ctx, ds); err != nil {
		return nil, err
	}

	data, err := render.RenderJSON(doc, render.WithJSONCompact(), render.WithJSONFillID(id))
	if err != nil {
		return nil, err
	}
	return &Filled{Document: doc, FillID: id, Hash: cache.Hash(data), Records: ds.Len()}, nil
}

// decodeFilled restores a document cached by FillWithCacheInfo.
func decodeFilled(data []byte) (*Filled, error) {
	doc, err := render.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	var meta struct {
		FillID string `json:"fill_id"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &Filled{Document: doc, FillID: meta.FillID, Hash: cache.Hash(data)}, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, filled *Filled, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(filled.Hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := RenderFormat(filled.Document, filled.FillID, format, opts)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
