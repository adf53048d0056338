package ingest

import "testing"

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]string
		want    string
	}{
		{
			name:    "two by two",
			columns: []string{"A", "B"},
			rows:    [][]string{{"1", "2"}},
			want:    "| A | B |\n|---|---|\n| 1 | 2 |",
		},
		{
			name:    "widths follow longest cell",
			columns: []string{"Name", "Qty"},
			rows:    [][]string{{"apple", "3"}},
			want:    "| Name  | Qty |\n|-------|-----|\n| apple | 3   |",
		},
		{
			name:    "ragged row padded",
			columns: []string{"A", "B"},
			rows:    [][]string{{"1"}},
			want:    "| A | B |\n|---|---|\n| 1 |   |",
		},
		{
			name:    "pipes and newlines in cells",
			columns: []string{"x|y"},
			rows:    [][]string{{"line1\nline2"}},
			want:    "| x\\|y        |\n|-------------|\n| line1 line2 |",
		},
		{
			name:    "header only",
			columns: []string{"A"},
			want:    "| A |\n|---|",
		},
		{
			name: "empty",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderMarkdown(tt.columns, tt.rows); got != tt.want {
				t.Errorf("RenderMarkdown() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
