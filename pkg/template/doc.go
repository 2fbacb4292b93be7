// Package template decodes report templates and compiles them into
// [fill.Report] values.
//
// Templates are TOML or YAML files describing the page geometry, the
// groups, the user variables and the sections of a report. Each section is
// a band of static elements, see package band for the text syntax.
//
//	spec, err := template.Load("orders.toml")
//	if err != nil {
//		return err
//	}
//	vars, err := spec.CalculatorVariables()
//	if err != nil {
//		return err
//	}
//	calc, err := dataset.NewCalculator(ds, spec.GroupKeys(), vars...)
//	if err != nil {
//		return err
//	}
//	report, err := template.Compile(spec, calc)
//
// # Section names
//
// Bands without an explicit name are named after their section: title,
// page_header, column_header, detail, column_footer, page_footer,
// last_page_footer, summary, no_data and background. Group bands are named
// <group>.header and <group>.footer. Sections holding several bands add
// the band index, as in detail.0 and detail.1.
//
// # Validation
//
// [Spec.Validate] rejects unknown options, unknown variables in $V{}
// references and stretch lines in sections filled at a fixed height
// (column headers and footers, page footers and detail rows). Field
// references depend on the data and are checked during the fill.
package template
