// Package band implements report sections for package fill.
//
// A [Band] is a block of static elements, laid out within the band's
// declared height, optionally followed by a stretch of lines whose number
// comes from a record field. Element text references fields as $F{name}
// and variables as $V{name}; references are expanded with the values of
// the evaluation mode requested by the filler.
//
//	b, err := band.New(band.Config{
//		Name:   "detail",
//		Height: 14,
//		Elements: []band.Static{
//			{X: 0, Width: 120, Height: 14, Text: "$F{name}"},
//			{X: 120, Width: 60, Height: 14, Text: "$F{amount}"},
//		},
//	}, calc)
//
// A band filled into less space than it needs stops after the static part
// or after the last line that fits, and continues there on the next fill.
// [SplitPrevent] bands are instead moved to the next page whole.
//
// Elements marked [EvalReport] keep their references until the report is
// complete; a [Resolver] then expands them, which is how "page N of M"
// footers are written.
package band
