// Package dataset supplies report data and variables to package fill.
//
// A [Dataset] holds records decoded from JSON or CSV and walks them as a
// [fill.DataSource]. A [Calculator] runs over the same dataset: it detects
// group ruptures from group key fields, maintains the built-in counters
// (PAGE_NUMBER, COLUMN_NUMBER, REPORT_COUNT, PAGE_COUNT, COLUMN_COUNT and
// one <group>_COUNT per group) plus any user [Variable], and hands values
// to bands by evaluation mode.
//
//	ds, err := dataset.Load("orders.json")
//	if err != nil {
//		return err
//	}
//	calc, err := dataset.NewCalculator(ds, []dataset.GroupKey{{Name: "city", Field: "city"}},
//		dataset.Variable{Name: "total", Field: "amount", Calculation: dataset.Sum, Reset: fill.ScopeGroup, ResetGroup: "city"})
//
// A dataset is not safe for concurrent fills; use one per fill pass and
// [Dataset.Rewind] it before filling again.
package dataset
