package ingest

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderMarkdown renders a pipe table with columns as the header row.
// Ragged rows are padded with empty cells; the result has no trailing newline.
func RenderMarkdown(columns []string, rows [][]string) string {
	ncol := len(columns)
	for _, r := range rows {
		ncol = max(ncol, len(r))
	}
	if ncol == 0 {
		return ""
	}

	header := normalizeRow(columns, ncol)
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = normalizeRow(r, ncol)
	}

	widths := make([]int, ncol)
	for j := range widths {
		widths[j] = runewidth.StringWidth(header[j])
		for _, r := range body {
			widths[j] = max(widths[j], runewidth.StringWidth(r[j]))
		}
	}

	var sb strings.Builder
	writeRow(&sb, header, widths)
	sb.WriteByte('\n')
	for _, w := range widths {
		sb.WriteByte('|')
		sb.WriteString(strings.Repeat("-", w+2))
	}
	sb.WriteByte('|')
	for _, r := range body {
		sb.WriteByte('\n')
		writeRow(&sb, r, widths)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for j, c := range cells {
		sb.WriteString("| ")
		sb.WriteString(runewidth.FillRight(c, widths[j]))
		sb.WriteByte(' ')
	}
	sb.WriteByte('|')
}

func normalizeRow(cells []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(cells); i++ {
		out[i] = cleanCell(cells[i])
	}
	return out
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`)

func cleanCell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}
