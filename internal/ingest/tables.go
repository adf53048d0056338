package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/tabula/graphicsstate"
	tabmodel "github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
)

// detectTables finds the page's tables in two passes. Ruled grids come from
// the drawn lines and rectangles; text left outside them goes to the
// whitespace detector. Results are ordered top to bottom in page space.
func detectTables(detector tables.Detector, ge *graphicsstate.GraphicsExtractor, frags []tabmodel.TextFragment, width, height float64) ([]DetectedTable, error) {
	limits := tables.DefaultConfig()

	var out []DetectedTable
	rest := frags
	if ge != nil {
		var ruled []DetectedTable
		ruled, rest = ruledTables(ge, frags, height, limits)
		out = append(out, ruled...)
	}

	mp := tabmodel.NewPage(width, height)
	mp.RawText = rest
	if ge != nil {
		mp.RawLines = append(ge.ToModelLines(), ge.ToModelRectangles()...)
	}
	found, err := detector.Detect(mp)
	if err != nil {
		return nil, fmt.Errorf("detect tables: %w", err)
	}
	for _, t := range found {
		cells := compactCells(cellText(t))
		if len(cells) < limits.MinRows || len(cells[0]) < limits.MinCols {
			continue
		}
		out = append(out, DetectedTable{BBox: flipBBox(t.BBox, height), Cells: cells})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].BBox.Top < out[j].BBox.Top })
	return out, nil
}

// ruledTables fills each ruled grid with the fragments whose centers fall in
// its cells and returns the fragments that no grid claimed.
func ruledTables(ge *graphicsstate.GraphicsExtractor, frags []tabmodel.TextFragment, pageHeight float64, limits tables.Config) ([]DetectedTable, []tabmodel.TextFragment) {
	gl := ge.GetGridLines()
	rh, rv := rectEdges(ge.GetFilteredRectangles())
	horizontals := append(gl.Horizontals, rh...)
	verticals := append(gl.Verticals, rv...)

	var out []DetectedTable
	rest := frags
	for _, hyp := range tables.NewGridDetector().DetectFromLines(horizontals, verticals) {
		if hyp.Rows < limits.MinRows || hyp.Cols < limits.MinCols || hyp.Confidence < limits.MinConfidence {
			continue
		}
		cells, outside := fillGrid(hyp.ToTableGrid(), rest)
		if !hasText(cells) {
			continue
		}
		rest = outside
		out = append(out, DetectedTable{BBox: flipBBox(hyp.BBox, pageHeight), Cells: cells})
	}
	return out, rest
}

// rectEdges turns rectangles into their four edges. Thin filled rectangles
// are a common way to draw rules, and cell borders are often drawn as boxes.
func rectEdges(rects []graphicsstate.ExtractedRectangle) (h, v []graphicsstate.ExtractedLine) {
	for _, rc := range rects {
		b := rc.BBox
		h = append(h, edge(b.Left(), b.Bottom(), b.Right(), b.Bottom()), edge(b.Left(), b.Top(), b.Right(), b.Top()))
		v = append(v, edge(b.Left(), b.Bottom(), b.Left(), b.Top()), edge(b.Right(), b.Bottom(), b.Right(), b.Top()))
	}
	return h, v
}

func edge(x0, y0, x1, y1 float64) graphicsstate.ExtractedLine {
	start, end := tabmodel.Point{X: x0, Y: y0}, tabmodel.Point{X: x1, Y: y1}
	return graphicsstate.ExtractedLine{
		Start:        start,
		End:          end,
		BBox:         tabmodel.NewBBoxFromPoints(start, end),
		IsHorizontal: y0 == y1,
		IsVertical:   x0 == x1,
	}
}

// fillGrid assigns fragments to grid cells in reading order. Rows are
// ordered top down (descending Y), columns left to right.
func fillGrid(grid *tabmodel.TableGrid, frags []tabmodel.TextFragment) ([][]string, []tabmodel.TextFragment) {
	ordered := make([]tabmodel.TextFragment, len(frags))
	copy(ordered, frags)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].BBox, ordered[j].BBox
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})

	parts := make([][][]string, grid.RowCount())
	for i := range parts {
		parts[i] = make([][]string, grid.ColCount())
	}
	var outside []tabmodel.TextFragment
	for _, f := range ordered {
		row, col := cellAt(grid, f.BBox.Center())
		if row < 0 || col < 0 {
			outside = append(outside, f)
			continue
		}
		if s := strings.TrimSpace(f.Text); s != "" {
			parts[row][col] = append(parts[row][col], s)
		}
	}

	cells := make([][]string, len(parts))
	for i, row := range parts {
		cells[i] = make([]string, len(row))
		for j, p := range row {
			cells[i][j] = strings.Join(p, " ")
		}
	}
	return cells, outside
}

func cellAt(grid *tabmodel.TableGrid, p tabmodel.Point) (row, col int) {
	row, col = -1, -1
	for i := 0; i < grid.RowCount(); i++ {
		if p.Y <= grid.Rows[i] && p.Y >= grid.Rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < grid.ColCount(); i++ {
		if p.X >= grid.Cols[i] && p.X <= grid.Cols[i+1] {
			col = i
			break
		}
	}
	return row, col
}

func cellText(t *tabmodel.Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.Text
		}
	}
	return out
}

// compactCells drops rows and columns without text. The whitespace detector
// places a boundary on both edges of every fragment, so each real row and
// column comes followed by an empty one.
func compactCells(cells [][]string) [][]string {
	ncol := 0
	for _, r := range cells {
		ncol = max(ncol, len(r))
	}
	keepCol := make([]bool, ncol)
	var rows [][]string
	for _, r := range cells {
		empty := true
		for j, c := range r {
			if strings.TrimSpace(c) != "" {
				keepCol[j] = true
				empty = false
			}
		}
		if !empty {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{}
		for j, keep := range keepCol {
			if !keep {
				continue
			}
			var c string
			if j < len(r) {
				c = r[j]
			}
			out[i] = append(out[i], c)
		}
	}
	return out
}

func hasText(cells [][]string) bool {
	for _, r := range cells {
		for _, c := range r {
			if c != "" {
				return true
			}
		}
	}
	return false
}
