package fill

// Group is a run of consecutive records sharing a key. Groups of a report
// are ordered outermost first.
type Group struct {
	Name   string
	Header []SplittableBand
	Footer []SplittableBand

	StartNewPage            bool
	StartNewColumn          bool
	ResetPageNumber         bool
	KeepTogether            bool
	ReprintHeaderOnEachPage bool
	MinHeightToStartNewPage int
	FooterPosition          FooterPosition

	changed        bool
	topLevelChange bool
	headerPrinted  bool
	footerPrinted  bool

	// keepTogether is set while the group's content is held together; its
	// presence is the keep-together-in-progress state.
	keepTogether *ElementRange
}

// Changed reports whether the group's key changed with the current record.
func (g *Group) Changed() bool { return g.changed }

// HeaderPrinted reports whether the group header was filled for the current group instance.
func (g *Group) HeaderPrinted() bool { return g.headerPrinted }

// FooterPrinted reports whether the group footer was filled for the previous group instance.
func (g *Group) FooterPrinted() bool { return g.footerPrinted }

// KeepTogetherRange returns the span of content currently held together, or nil.
func (g *Group) KeepTogetherRange() *ElementRange { return g.keepTogether }

func (g *Group) reset() {
	g.changed = false
	g.topLevelChange = false
	g.headerPrinted = false
	g.footerPrinted = false
	g.keepTogether = nil
}

// applyRuptures stores the raw per-group change flags reported by the
// calculator. A change of an outer group changes every group inside it, and
// only the outermost changed group is the top-level change.
func applyRuptures(groups []*Group, flags []bool) {
	changed := false
	for i, g := range groups {
		top := false
		if !changed && i < len(flags) && flags[i] {
			changed = true
			top = true
		}
		g.changed = changed
		g.topLevelChange = top
	}
}
