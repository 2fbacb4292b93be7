package fill

import (
	"testing"

	errs "github.com/matzehuels/bandfill/pkg/errors"
)

func TestGeometryValidate(t *testing.T) {
	valid := Geometry{PageWidth: 595, PageHeight: 842, TopMargin: 20, BottomMargin: 20, LeftMargin: 20, RightMargin: 20, ColumnCount: 2, ColumnWidth: 270, ColumnSpacing: 15}

	tests := []struct {
		name    string
		modify  func(*Geometry)
		wantErr bool
	}{
		{"Valid", func(*Geometry) {}, false},
		{"ZeroHeight", func(g *Geometry) { g.PageHeight = 0 }, true},
		{"NegativeMargin", func(g *Geometry) { g.LeftMargin = -1 }, true},
		{"MarginsFillPage", func(g *Geometry) { g.TopMargin, g.BottomMargin = 421, 421 }, true},
		{"NoColumns", func(g *Geometry) { g.ColumnCount = 0 }, true},
		{"ZeroColumnWidth", func(g *Geometry) { g.ColumnWidth = 0 }, true},
		{"ColumnsTooWide", func(g *Geometry) { g.ColumnWidth = 290 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.modify(&g)
			err := g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidGeometry) {
				t.Errorf("Validate() code = %q", errs.GetCode(err))
			}
		})
	}
}

func TestGeometryColumnX(t *testing.T) {
	g := Geometry{PageWidth: 300, LeftMargin: 10, RightMargin: 20, ColumnCount: 3, ColumnWidth: 80, ColumnSpacing: 5}

	tests := []struct {
		dir  Direction
		want []int
	}{
		{LeftToRight, []int{10, 95, 180}},
		{RightToLeft, []int{200, 115, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			g.Direction = tt.dir
			for i, want := range tt.want {
				if got := g.ColumnX(i); got != want {
					t.Errorf("ColumnX(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}

	if got := g.ColumnsWidth(); got != 250 {
		t.Errorf("ColumnsWidth() = %d, want 250", got)
	}
	if got := g.ContentWidth(); got != 270 {
		t.Errorf("ContentWidth() = %d, want 270", got)
	}
}

func TestApplyRuptures(t *testing.T) {
	groups := []*Group{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	applyRuptures(groups, []bool{false, true, false})

	wantChanged := []bool{false, true, true}
	wantTop := []bool{false, true, false}
	for i, g := range groups {
		if g.Changed() != wantChanged[i] || g.topLevelChange != wantTop[i] {
			t.Errorf("group %s: changed = %v, top = %v", g.Name, g.Changed(), g.topLevelChange)
		}
	}

	applyRuptures(groups, nil)
	for _, g := range groups {
		if g.Changed() {
			t.Errorf("group %s changed without ruptures", g.Name)
		}
	}
}
