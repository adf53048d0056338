package ingest

import (
	"github.com/MalithGihan/docsum-service/pkg/types"
)

// Page is one parsed PDF page. It is only held while that page is extracted.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Glyphs []types.Glyph
	Tables []DetectedTable // detection order
	Images []types.ExtractedImage
}

type DetectedTable struct {
	BBox  types.BBox
	Cells [][]string
}

// extractPage turns detected tables into markdown markers and renders the
// page's free text. Glyphs overlapping any table are collected into one
// exclusion set and dropped in a single pass before rendering.
func extractPage(p Page) (string, []types.Table) {
	exclude := make(map[int]struct{})
	markers := make([]types.Glyph, 0, len(p.Tables))
	tables := make([]types.Table, 0, len(p.Tables))

	for _, dt := range p.Tables {
		t := buildTable(p.Number, dt)
		tables = append(tables, t)

		anchor := types.BBox{Left: dt.BBox.Left, Top: dt.BBox.Top, Right: dt.BBox.Left, Bottom: dt.BBox.Top}
		found := false
		for i, g := range p.Glyphs {
			if !g.BBox.Intersects(dt.BBox) {
				continue
			}
			if !found {
				anchor, found = g.BBox, true
			}
			exclude[i] = struct{}{}
		}
		if t.Markdown != "" {
			markers = append(markers, types.Glyph{Text: t.Markdown, BBox: anchor})
		}
	}

	kept := make([]types.Glyph, 0, len(p.Glyphs)-len(exclude)+len(markers))
	for i, g := range p.Glyphs {
		if _, drop := exclude[i]; !drop {
			kept = append(kept, g)
		}
	}
	kept = append(kept, markers...)
	return RenderLayout(kept), tables
}

func buildTable(page int, dt DetectedTable) types.Table {
	t := types.Table{Page: page, BBox: dt.BBox}
	if len(dt.Cells) == 0 {
		return t
	}
	t.Columns = append([]string(nil), dt.Cells[0]...)
	for _, row := range dt.Cells[1:] {
		t.Rows = append(t.Rows, append([]string(nil), row...))
	}
	t.Markdown = RenderMarkdown(t.Columns, t.Rows)
	return t
}
