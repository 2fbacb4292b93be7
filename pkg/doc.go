// Package pkg provides the libraries behind bandfill, a pagination engine
// for banded reports.
//
// # Overview
//
// A report is a stack of bands: title, page and column headers, group
// headers, detail rows, group footers, column and page footers, summary.
// Filling a report walks the records once and lays the bands out on pages,
// breaking pages and columns when a band does not fit.
//
//  1. [template] - Report templates in TOML or YAML, compiled to reports
//  2. [dataset] - Records from JSON or CSV, variables and group ruptures
//  3. [band] - Bands of static text with $F{} and $V{} references
//  4. [fill] - The fill engine: page, column and group breaks
//  5. [render] - JSON, SVG and PDF output of filled documents
//  6. [pipeline] - Orchestration (load → fill → render) with caching
//
// # Architecture
//
//	template (.toml/.yaml)      records (.json/.csv)
//	         ↓                          ↓
//	    [template] package         [dataset] package
//	         ↓                          ↓
//	         └──────→ [fill] package ←──┘
//	                       ↓
//	               [render] package
//	                       ↓
//	             JSON/SVG/PDF output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    TemplatePath: "orders.toml",
//	    DataPath:     "orders.json",
//	    Formats:      []string{"pdf"},
//	})
package pkg
