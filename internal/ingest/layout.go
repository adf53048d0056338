package ingest

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MalithGihan/docsum-service/pkg/types"
)

// Grid used to lay glyphs out as text: one column per 7.25pt, one line per 13pt.
const (
	layoutXDensity   = 7.25
	layoutYDensity   = 13.0
	layoutYTolerance = 3.0
)

// RenderLayout rebuilds page text so that line breaks and horizontal spacing
// follow the glyph positions. Glyphs whose tops lie within layoutYTolerance of
// a line's first glyph share that line.
func RenderLayout(glyphs []types.Glyph) string {
	if len(glyphs) == 0 {
		return ""
	}

	sorted := make([]types.Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Top != sorted[j].BBox.Top {
			return sorted[i].BBox.Top < sorted[j].BBox.Top
		}
		return sorted[i].BBox.Left < sorted[j].BBox.Left
	})

	var lines [][]types.Glyph
	var tops []float64
	for _, g := range sorted {
		if len(lines) == 0 || g.BBox.Top-tops[len(tops)-1] > layoutYTolerance {
			lines = append(lines, nil)
			tops = append(tops, g.BBox.Top)
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], g)
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			n := int(math.Round((tops[i] - tops[i-1]) / layoutYDensity))
			sb.WriteString(strings.Repeat("\n", max(1, n)))
		}
		sort.SliceStable(line, func(a, b int) bool { return line[a].BBox.Left < line[b].BBox.Left })
		renderLine(&sb, line)
	}
	return trimLineEnds(sb.String())
}

func renderLine(sb *strings.Builder, line []types.Glyph) {
	col := 0
	for _, g := range line {
		if target := int(math.Round(g.BBox.Left / layoutXDensity)); target > col {
			sb.WriteString(strings.Repeat(" ", target-col))
			col = target
		}
		if !strings.Contains(g.Text, "\n") {
			sb.WriteString(g.Text)
			col += utf8.RuneCountInString(g.Text)
			continue
		}
		// Multi-line blocks (table markers) keep their left edge on every line.
		indent := strings.Repeat(" ", col)
		parts := strings.Split(g.Text, "\n")
		for k, p := range parts {
			if k > 0 {
				sb.WriteByte('\n')
				sb.WriteString(indent)
			}
			sb.WriteString(p)
		}
		col += utf8.RuneCountInString(parts[len(parts)-1])
	}
}

func trimLineEnds(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
