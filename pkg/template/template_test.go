package template

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bandfill/pkg/dataset"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

func TestLoadFormatsAgree(t *testing.T) {
	fromTOML, err := Load(filepath.Join("testdata", "orders.toml"))
	if err != nil {
		t.Fatalf("Load(toml): %v", err)
	}
	fromYAML, err := Load(filepath.Join("testdata", "orders.yaml"))
	if err != nil {
		t.Fatalf("Load(yaml): %v", err)
	}
	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Errorf("toml and yaml templates differ (-toml +yaml):\n%s", diff)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"TOML", "name = \"r\"\ncolums = 2\n", FormatTOML},
		{"YAML", "name: r\ncolums: 2\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); !errs.Is(err, errs.ErrCodeInvalidTemplate) {
				t.Errorf("Decode() error = %v, want INVALID_TEMPLATE", err)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("report.json"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Load(.json) error = %v, want INVALID_FORMAT", err)
	}
	if _, err := Load(filepath.Join("testdata", "missing.toml")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestGeometryDefaults(t *testing.T) {
	s := &Spec{Page: PageSpec{Columns: 3, ColumnSpacing: 5}}
	want := fill.Geometry{
		PageWidth:     DefaultPageWidth,
		PageHeight:    DefaultPageHeight,
		TopMargin:     DefaultMargin,
		BottomMargin:  DefaultMargin,
		LeftMargin:    DefaultMargin,
		RightMargin:   DefaultMargin,
		ColumnCount:   3,
		ColumnWidth:   181,
		ColumnSpacing: 5,
	}
	if diff := cmp.Diff(want, s.Geometry()); diff != "" {
		t.Errorf("Geometry() (-want +got):\n%s", diff)
	}
}

func bandSpec(name string, height int, text string) *BandSpec {
	return &BandSpec{Name: name, Height: height, Elements: []ElementSpec{{Height: height, Text: text}}}
}

func TestValidate(t *testing.T) {
	valid := func() *Spec {
		return &Spec{
			Name:   "r",
			Groups: []GroupSpec{{Name: "g", Field: "f"}},
			Detail: []BandSpec{*bandSpec("", 10, "$F{x}")},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Spec)
		code   errs.Code
	}{
		{"Valid", func(*Spec) {}, ""},
		{"NoName", func(s *Spec) { s.Name = "" }, errs.ErrCodeInvalidTemplate},
		{"BadDirection", func(s *Spec) { s.Page.Direction = "up" }, errs.ErrCodeInvalidGeometry},
		{"TooManyColumns", func(s *Spec) { s.Page.Columns = 4; s.Page.ColumnWidth = 200 }, errs.ErrCodeInvalidGeometry},
		{"UnknownPolicy", func(s *Spec) { s.WhenNoData = "sometimes" }, errs.ErrCodeInvalidTemplate},
		{"NoDataSectionMissing", func(s *Spec) { s.WhenNoData = "no-data-section" }, errs.ErrCodeInvalidTemplate},
		{"DuplicateGroup", func(s *Spec) { s.Groups = append(s.Groups, GroupSpec{Name: "g", Field: "f"}) }, errs.ErrCodeInvalidTemplate},
		{"GroupWithoutField", func(s *Spec) { s.Groups[0].Field = "" }, errs.ErrCodeInvalidTemplate},
		{"BadFooterPosition", func(s *Spec) { s.Groups[0].FooterPosition = "top" }, errs.ErrCodeInvalidTemplate},
		{"BadCalculation", func(s *Spec) { s.Variables = []VariableSpec{{Name: "v", Calculation: "median"}} }, errs.ErrCodeInvalidTemplate},
		{"BadResetGroup", func(s *Spec) { s.Variables = []VariableSpec{{Name: "v", Reset: "group", ResetGroup: "h"}} }, errs.ErrCodeInvalidTemplate},
		{"UnknownVariable", func(s *Spec) { s.Summary = bandSpec("", 10, "$V{nope}") }, errs.ErrCodeInvalidTemplate},
		{"StretchingDetail", func(s *Spec) { s.Detail[0].Stretch = &StretchSpec{Field: "items", LineHeight: 5} }, errs.ErrCodeInvalidTemplate},
		{"DuplicateBandName", func(s *Spec) { s.Title = bandSpec("detail", 10, "") }, errs.ErrCodeInvalidTemplate},
		{"BadSplit", func(s *Spec) { s.Title = bandSpec("", 10, ""); s.Title.Split = "never" }, errs.ErrCodeInvalidTemplate},
		{"BadEvalTime", func(s *Spec) { s.Title = bandSpec("", 10, ""); s.Title.Elements[0].EvalTime = "later" }, errs.ErrCodeInvalidTemplate},
		{"UnknownPrintGroup", func(s *Spec) { s.Detail[0].Elements[0].PrintWhenGroupChanges = "h" }, errs.ErrCodeInvalidTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompileSections(t *testing.T) {
	s := &Spec{
		Name:       "r",
		Title:      bandSpec("", 10, "t"),
		PageFooter: bandSpec("", 10, "$V{PAGE_NUMBER}"),
		Detail:     []BandSpec{*bandSpec("", 10, "a"), *bandSpec("", 10, "b")},
		Groups: []GroupSpec{{
			Name:   "g",
			Field:  "f",
			Header: []BandSpec{*bandSpec("", 10, "h")},
		}},
	}
	r, err := Compile(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.ColumnHeader != nil || r.Summary != nil || r.NoData != nil {
		t.Error("absent sections compiled to non-nil bands")
	}
	var names []string
	for _, b := range Bands(r) {
		names = append(names, b.Name())
	}
	want := []string{"title", "g.header", "detail.0", "detail.1", "page_footer"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("band names (-want +got):\n%s", diff)
	}
}

type line struct {
	Y    int
	Text string
}

func TestCompileAndFill(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "orders.toml"))
	if err != nil {
		t.Fatal(err)
	}
	ds := dataset.New([]dataset.Record{
		{"city": "Oslo", "name": "Ann", "amount": 10.0},
		{"city": "Oslo", "name": "Bo", "amount": 5.0},
		{"city": "Bergen", "name": "Cy", "amount": 7.0},
	})
	vars, err := s.CalculatorVariables()
	if err != nil {
		t.Fatal(err)
	}
	calc, err := dataset.NewCalculator(ds, s.GroupKeys(), vars...)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Compile(s, calc)
	if err != nil {
		t.Fatal(err)
	}
	f, err := fill.New(r, fill.WithCalculator(calc))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Fill(context.Background(), ds); err != nil {
		t.Fatal(err)
	}

	doc := f.Sink().(*fill.Document)
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}
	var got []line
	for _, e := range doc.Pages[0].Elements {
		got = append(got, line{e.Y, e.Text})
	}
	want := []line{
		{0, "Orders"},
		{10, "Oslo"},
		{20, "Ann 10"},
		{30, "Bo 5"},
		{40, "total 15"},
		{50, "Bergen"},
		{60, "Cy 7"},
		{70, "total 7"},
		{190, "page 1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("page content (-want +got):\n%s", diff)
	}
}

func TestCompileAndFillNoData(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "orders.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	vars, err := s.CalculatorVariables()
	if err != nil {
		t.Fatal(err)
	}
	ds := dataset.New(nil)
	calc := dataset.MustNewCalculator(ds, s.GroupKeys(), vars...)
	r, err := Compile(s, calc)
	if err != nil {
		t.Fatal(err)
	}
	f, err := fill.New(r, fill.WithCalculator(calc))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Fill(context.Background(), ds); err != nil {
		t.Fatal(err)
	}
	doc := f.Sink().(*fill.Document)
	if len(doc.Pages) != 1 || len(doc.Pages[0].Elements) != 1 || doc.Pages[0].Elements[0].Text != "No orders" {
		t.Errorf("no-data document = %+v", doc.Pages)
	}
}
