package ingest

import (
	"reflect"
	"testing"

	"github.com/tsawler/tabula/graphicsstate"
	tabmodel "github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
)

func fragment(text string, x, y float64) tabmodel.TextFragment {
	return tabmodel.TextFragment{
		Text:     text,
		BBox:     tabmodel.NewBBox(x, y, 6*float64(len(text)), 12),
		FontSize: 12,
	}
}

func TestCompactCells(t *testing.T) {
	tests := []struct {
		name string
		in   [][]string
		want [][]string
	}{
		{
			name: "interleaved empties",
			in: [][]string{
				{"A", "", "B", ""},
				{"", "", "", ""},
				{"1", "", "2", ""},
				{"", "", "", ""},
			},
			want: [][]string{{"A", "B"}, {"1", "2"}},
		},
		{
			name: "sparse cell kept",
			in: [][]string{
				{"A", "B", ""},
				{"1", "", " "},
			},
			want: [][]string{{"A", "B"}, {"1", ""}},
		},
		{
			name: "ragged rows",
			in:   [][]string{{"A"}, {"1", "2"}},
			want: [][]string{{"A", ""}, {"1", "2"}},
		},
		{name: "all empty", in: [][]string{{"", " "}, {""}}, want: nil},
		{name: "nil", in: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compactCells(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("compactCells = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFillGrid(t *testing.T) {
	grid := tabmodel.NewTableGrid()
	grid.Rows = []float64{720, 680, 640}
	grid.Cols = []float64{72, 172, 272}

	frags := []tabmodel.TextFragment{
		fragment("2", 180, 655),
		fragment("Total", 80, 655),
		fragment("B", 180, 695),
		fragment("Name", 120, 695),
		fragment("First", 80, 695),
		fragment("Footer", 72, 600),
	}
	cells, outside := fillGrid(grid, frags)

	want := [][]string{{"First Name", "B"}, {"Total", "2"}}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("cells = %q, want %q", cells, want)
	}
	if len(outside) != 1 || outside[0].Text != "Footer" {
		t.Errorf("outside = %+v, want only Footer", outside)
	}
}

func TestCellAtOutsideGrid(t *testing.T) {
	grid := tabmodel.NewTableGrid()
	grid.Rows = []float64{100, 50}
	grid.Cols = []float64{0, 100}

	if row, col := cellAt(grid, tabmodel.Point{X: 50, Y: 75}); row != 0 || col != 0 {
		t.Errorf("inside = (%d, %d), want (0, 0)", row, col)
	}
	if row, col := cellAt(grid, tabmodel.Point{X: 150, Y: 75}); col != -1 || row != 0 {
		t.Errorf("right of grid = (%d, %d), want (0, -1)", row, col)
	}
	if row, _ := cellAt(grid, tabmodel.Point{X: 50, Y: 20}); row != -1 {
		t.Errorf("below grid row = %d, want -1", row)
	}
}

func TestRectEdgesFormGrid(t *testing.T) {
	var rects []graphicsstate.ExtractedRectangle
	for _, y := range []float64{680, 640} {
		for _, x := range []float64{72, 172} {
			rects = append(rects, graphicsstate.ExtractedRectangle{BBox: tabmodel.NewBBox(x, y, 100, 40), IsStroked: true})
		}
	}
	h, v := rectEdges(rects)
	if len(h) != 8 || len(v) != 8 {
		t.Fatalf("edges = %d horizontal %d vertical, want 8 each", len(h), len(v))
	}
	for _, l := range h {
		if !l.IsHorizontal || l.IsVertical {
			t.Fatalf("horizontal edge misclassified: %+v", l)
		}
	}

	hyps := tables.NewGridDetector().DetectFromLines(h, v)
	if len(hyps) != 1 {
		t.Fatalf("hypotheses = %d, want 1", len(hyps))
	}
	if hyps[0].Rows != 2 || hyps[0].Cols != 2 {
		t.Errorf("grid = %dx%d, want 2x2", hyps[0].Rows, hyps[0].Cols)
	}
}

func TestDetectTablesRuled(t *testing.T) {
	ge := pageGraphics([]byte("72 640 100 40 re S 172 640 100 40 re S 72 680 100 40 re S 172 680 100 40 re S"))
	if ge == nil {
		t.Fatal("pageGraphics returned nil for a valid stream")
	}
	frags := []tabmodel.TextFragment{
		fragment("Title", 72, 750),
		fragment("A", 80, 695),
		fragment("B", 180, 695),
		fragment("1", 80, 655),
		fragment("2", 180, 655),
	}

	found, err := detectTables(tables.NewGeometricDetector(), ge, frags, 612, 792)
	if err != nil {
		t.Fatalf("detectTables: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("tables = %d, want 1: %+v", len(found), found)
	}
	if want := [][]string{{"A", "B"}, {"1", "2"}}; !reflect.DeepEqual(found[0].Cells, want) {
		t.Errorf("cells = %q, want %q", found[0].Cells, want)
	}
	if b := found[0].BBox; b.Top != 72 || b.Bottom != 152 {
		t.Errorf("bbox = %+v, want top 72 bottom 152", b)
	}
}

func TestDetectTablesEmptyGrid(t *testing.T) {
	ge := pageGraphics([]byte("72 640 200 80 re S 172 640 m 172 720 l S 72 680 m 272 680 l S"))
	found, err := detectTables(tables.NewGeometricDetector(), ge, []tabmodel.TextFragment{fragment("Elsewhere", 72, 400)}, 612, 792)
	if err != nil {
		t.Fatalf("detectTables: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("tables = %+v, want none for a grid without text", found)
	}
}

func TestPageGraphicsUnreadable(t *testing.T) {
	if ge := pageGraphics(nil); ge != nil {
		t.Error("pageGraphics(nil) != nil")
	}
}

func TestDrawnXObjects(t *testing.T) {
	got := drawnXObjects([]byte("q 1 0 0 1 0 0 cm /Im2 Do Q q /Fm1 Do Q /Im2 Do /Im1 Do"))
	want := map[string]int{"Im2": 0, "Fm1": 1, "Im1": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("drawn = %v, want %v", got, want)
	}
	if got := drawnXObjects(nil); got == nil || len(got) != 0 {
		t.Errorf("empty stream = %v, want empty non-nil map", got)
	}
}
