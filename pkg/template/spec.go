package template

// Spec is a report template as written in a TOML or YAML file.
//
//	name = "orders"
//	when_no_data = "no-data-section"
//
//	[page]
//	width = 595
//	height = 842
//	columns = 3
//
//	[[groups]]
//	name = "city"
//	field = "city"
//	keep_together = true
//
//	[[detail]]
//	height = 14
//	elements = [{ width = 120, height = 14, text = "$F{name}" }]
type Spec struct {
	Name       string `toml:"name" yaml:"name" json:"name"`
	WhenNoData string `toml:"when_no_data" yaml:"when_no_data" json:"when_no_data,omitempty"`

	TitleNewPage                   bool `toml:"title_new_page" yaml:"title_new_page" json:"title_new_page,omitempty"`
	SummaryNewPage                 bool `toml:"summary_new_page" yaml:"summary_new_page" json:"summary_new_page,omitempty"`
	SummaryWithPageHeaderAndFooter bool `toml:"summary_with_page_header_and_footer" yaml:"summary_with_page_header_and_footer" json:"summary_with_page_header_and_footer,omitempty"`
	FloatColumnFooter              bool `toml:"float_column_footer" yaml:"float_column_footer" json:"float_column_footer,omitempty"`
	IgnorePagination               bool `toml:"ignore_pagination" yaml:"ignore_pagination" json:"ignore_pagination,omitempty"`

	Page      PageSpec       `toml:"page" yaml:"page" json:"page"`
	Groups    []GroupSpec    `toml:"groups" yaml:"groups" json:"groups,omitempty"`
	Variables []VariableSpec `toml:"variables" yaml:"variables" json:"variables,omitempty"`

	Background     *BandSpec  `toml:"background" yaml:"background" json:"background,omitempty"`
	Title          *BandSpec  `toml:"title" yaml:"title" json:"title,omitempty"`
	PageHeader     *BandSpec  `toml:"page_header" yaml:"page_header" json:"page_header,omitempty"`
	ColumnHeader   *BandSpec  `toml:"column_header" yaml:"column_header" json:"column_header,omitempty"`
	Detail         []BandSpec `toml:"detail" yaml:"detail" json:"detail,omitempty"`
	ColumnFooter   *BandSpec  `toml:"column_footer" yaml:"column_footer" json:"column_footer,omitempty"`
	PageFooter     *BandSpec  `toml:"page_footer" yaml:"page_footer" json:"page_footer,omitempty"`
	LastPageFooter *BandSpec  `toml:"last_page_footer" yaml:"last_page_footer" json:"last_page_footer,omitempty"`
	Summary        *BandSpec  `toml:"summary" yaml:"summary" json:"summary,omitempty"`
	NoData         *BandSpec  `toml:"no_data" yaml:"no_data" json:"no_data,omitempty"`
}

// PageSpec is the page and column geometry. Zero values take the defaults
// of an A4 portrait page with one column.
type PageSpec struct {
	Width         int    `toml:"width" yaml:"width" json:"width,omitempty"`
	Height        int    `toml:"height" yaml:"height" json:"height,omitempty"`
	TopMargin     *int   `toml:"top_margin" yaml:"top_margin" json:"top_margin,omitempty"`
	BottomMargin  *int   `toml:"bottom_margin" yaml:"bottom_margin" json:"bottom_margin,omitempty"`
	LeftMargin    *int   `toml:"left_margin" yaml:"left_margin" json:"left_margin,omitempty"`
	RightMargin   *int   `toml:"right_margin" yaml:"right_margin" json:"right_margin,omitempty"`
	Columns       int    `toml:"columns" yaml:"columns" json:"columns,omitempty"`
	ColumnWidth   int    `toml:"column_width" yaml:"column_width" json:"column_width,omitempty"`
	ColumnSpacing int    `toml:"column_spacing" yaml:"column_spacing" json:"column_spacing,omitempty"`
	Direction     string `toml:"direction" yaml:"direction" json:"direction,omitempty"`
}

// GroupSpec is a report group, keyed by a record field.
type GroupSpec struct {
	Name                    string     `toml:"name" yaml:"name" json:"name"`
	Field                   string     `toml:"field" yaml:"field" json:"field"`
	StartNewPage            bool       `toml:"start_new_page" yaml:"start_new_page" json:"start_new_page,omitempty"`
	StartNewColumn          bool       `toml:"start_new_column" yaml:"start_new_column" json:"start_new_column,omitempty"`
	ResetPageNumber         bool       `toml:"reset_page_number" yaml:"reset_page_number" json:"reset_page_number,omitempty"`
	KeepTogether            bool       `toml:"keep_together" yaml:"keep_together" json:"keep_together,omitempty"`
	ReprintHeaderOnEachPage bool       `toml:"reprint_header" yaml:"reprint_header" json:"reprint_header,omitempty"`
	MinHeightToStartNewPage int        `toml:"min_height_to_start_new_page" yaml:"min_height_to_start_new_page" json:"min_height_to_start_new_page,omitempty"`
	FooterPosition          string     `toml:"footer_position" yaml:"footer_position" json:"footer_position,omitempty"`
	Header                  []BandSpec `toml:"header" yaml:"header" json:"header,omitempty"`
	Footer                  []BandSpec `toml:"footer" yaml:"footer" json:"footer,omitempty"`
}

// VariableSpec is a user variable folded over a record field.
type VariableSpec struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Field       string `toml:"field" yaml:"field" json:"field,omitempty"`
	Calculation string `toml:"calculation" yaml:"calculation" json:"calculation,omitempty"`
	Reset       string `toml:"reset" yaml:"reset" json:"reset,omitempty"`
	ResetGroup  string `toml:"reset_group" yaml:"reset_group" json:"reset_group,omitempty"`
}

// BandSpec is a template section.
type BandSpec struct {
	Name        string        `toml:"name" yaml:"name" json:"name,omitempty"`
	Height      int           `toml:"height" yaml:"height" json:"height"`
	BreakHeight int           `toml:"break_height" yaml:"break_height" json:"break_height,omitempty"`
	Split       string        `toml:"split" yaml:"split" json:"split,omitempty"`
	Shrink      bool          `toml:"shrink" yaml:"shrink" json:"shrink,omitempty"`
	PrintWhen   string        `toml:"print_when" yaml:"print_when" json:"print_when,omitempty"`
	Elements    []ElementSpec `toml:"elements" yaml:"elements" json:"elements,omitempty"`
	Stretch     *StretchSpec  `toml:"stretch" yaml:"stretch" json:"stretch,omitempty"`
}

// ElementSpec is a static element of a band.
type ElementSpec struct {
	Key                   string `toml:"key" yaml:"key" json:"key,omitempty"`
	X                     int    `toml:"x" yaml:"x" json:"x,omitempty"`
	Y                     int    `toml:"y" yaml:"y" json:"y,omitempty"`
	Width                 int    `toml:"width" yaml:"width" json:"width,omitempty"`
	Height                int    `toml:"height" yaml:"height" json:"height,omitempty"`
	Text                  string `toml:"text" yaml:"text" json:"text,omitempty"`
	EvalTime              string `toml:"eval_time" yaml:"eval_time" json:"eval_time,omitempty"`
	PrintWhenGroupChanges string `toml:"print_when_group_changes" yaml:"print_when_group_changes" json:"print_when_group_changes,omitempty"`
	FirstOnPage           bool   `toml:"first_on_page" yaml:"first_on_page" json:"first_on_page,omitempty"`
}

// StretchSpec is the run of lines below the static part of a band.
type StretchSpec struct {
	Field      string `toml:"field" yaml:"field" json:"field"`
	LineHeight int    `toml:"line_height" yaml:"line_height" json:"line_height"`
	X          int    `toml:"x" yaml:"x" json:"x,omitempty"`
	Width      int    `toml:"width" yaml:"width" json:"width,omitempty"`
	Text       string `toml:"text" yaml:"text" json:"text,omitempty"`
}

// Page defaults, in points.
const (
	DefaultPageWidth  = 595
	DefaultPageHeight = 842
	DefaultMargin     = 20
)

func orDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
