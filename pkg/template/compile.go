package template

import (
	"github.com/matzehuels/bandfill/pkg/band"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// Compile validates s and builds the report it describes. Band references
// are resolved through values, usually a [dataset.Calculator].
func Compile(s *Spec, values band.Values) (*fill.Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	built := make(map[*BandSpec]*band.Band)
	for _, sec := range s.sections() {
		b, err := newBand(sec, values)
		if err != nil {
			return nil, err
		}
		built[sec.spec] = b
	}
	// splittable and fixed keep absent sections as nil interfaces.
	splittable := func(b *BandSpec) fill.SplittableBand {
		if b == nil {
			return nil
		}
		return built[b]
	}
	fixed := func(b *BandSpec) fill.Band {
		if b == nil {
			return nil
		}
		return built[b]
	}

	policy, _ := fill.ParseNoDataPolicy(s.WhenNoData)
	r := &fill.Report{
		Name:                           s.Name,
		Geometry:                       s.Geometry(),
		Background:                     splittable(s.Background),
		Title:                          splittable(s.Title),
		PageHeader:                     splittable(s.PageHeader),
		ColumnHeader:                   fixed(s.ColumnHeader),
		ColumnFooter:                   fixed(s.ColumnFooter),
		PageFooter:                     fixed(s.PageFooter),
		LastPageFooter:                 fixed(s.LastPageFooter),
		Summary:                        splittable(s.Summary),
		NoData:                         splittable(s.NoData),
		WhenNoData:                     policy,
		TitleNewPage:                   s.TitleNewPage,
		SummaryNewPage:                 s.SummaryNewPage,
		SummaryWithPageHeaderAndFooter: s.SummaryWithPageHeaderAndFooter,
		FloatColumnFooter:              s.FloatColumnFooter,
		IgnorePagination:               s.IgnorePagination,
	}
	for i := range s.Detail {
		r.Detail = append(r.Detail, built[&s.Detail[i]])
	}
	for _, gs := range s.Groups {
		pos, _ := fill.ParseFooterPosition(gs.FooterPosition)
		g := &fill.Group{
			Name:                    gs.Name,
			StartNewPage:            gs.StartNewPage,
			StartNewColumn:          gs.StartNewColumn,
			ResetPageNumber:         gs.ResetPageNumber,
			KeepTogether:            gs.KeepTogether,
			ReprintHeaderOnEachPage: gs.ReprintHeaderOnEachPage,
			MinHeightToStartNewPage: gs.MinHeightToStartNewPage,
			FooterPosition:          pos,
		}
		for i := range gs.Header {
			g.Header = append(g.Header, built[&gs.Header[i]])
		}
		for i := range gs.Footer {
			g.Footer = append(g.Footer, built[&gs.Footer[i]])
		}
		r.Groups = append(r.Groups, g)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func newBand(sec section, values band.Values) (*band.Band, error) {
	b := sec.spec
	split, _ := band.ParseSplitType(b.Split)
	cfg := band.Config{
		Name:        sec.name,
		Height:      b.Height,
		BreakHeight: b.BreakHeight,
		Split:       split,
		Shrink:      b.Shrink,
		PrintWhen:   b.PrintWhen,
	}
	for _, e := range b.Elements {
		et, _ := parseEvalTime(e.EvalTime)
		cfg.Elements = append(cfg.Elements, band.Static{
			Key:                   e.Key,
			X:                     e.X,
			Y:                     e.Y,
			Width:                 e.Width,
			Height:                e.Height,
			Text:                  e.Text,
			EvalTime:              et,
			PrintWhenGroupChanges: e.PrintWhenGroupChanges,
			FirstOnPage:           e.FirstOnPage,
		})
	}
	if st := b.Stretch; st != nil {
		cfg.Stretch = &band.Stretch{Field: st.Field, LineHeight: st.LineHeight, X: st.X, Width: st.Width, Text: st.Text}
	}
	return band.New(cfg, values)
}

// Bands returns the bands of a compiled report, for a [band.Resolver].
func Bands(r *fill.Report) []*band.Band {
	var out []*band.Band
	add := func(b any) {
		if bb, ok := b.(*band.Band); ok && bb != nil {
			out = append(out, bb)
		}
	}
	add(r.Background)
	add(r.Title)
	add(r.PageHeader)
	add(r.ColumnHeader)
	for _, g := range r.Groups {
		for _, b := range g.Header {
			add(b)
		}
	}
	for _, b := range r.Detail {
		add(b)
	}
	for _, g := range r.Groups {
		for _, b := range g.Footer {
			add(b)
		}
	}
	add(r.ColumnFooter)
	add(r.PageFooter)
	add(r.LastPageFooter)
	add(r.Summary)
	add(r.NoData)
	return out
}
