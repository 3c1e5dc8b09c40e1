// Package markdownfmt normalizes pipe tables in markdown bodies so that
// columns align on display width. Everything outside a table, including
// fenced code blocks, passes through untouched.
package markdownfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type alignment int

const (
	alignNone alignment = iota
	alignLeft
	alignCenter
	alignRight
)

// Format rewrites every pipe table in body with padded, aligned columns.
// The body is expected without front matter; callers format post content,
// not raw files.
func Format(body string) string {
	lines := strings.Split(body, "\n")

	var out []string
	var tableBuffer []string
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			if len(tableBuffer) > 0 {
				out = append(out, formatTable(tableBuffer)...)
				tableBuffer = nil
			}
			inFence = !inFence
			out = append(out, line)
			continue
		}

		if !inFence && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			tableBuffer = append(tableBuffer, line)
			continue
		}

		if len(tableBuffer) > 0 {
			out = append(out, formatTable(tableBuffer)...)
			tableBuffer = nil
		}
		out = append(out, line)
	}

	if len(tableBuffer) > 0 {
		out = append(out, formatTable(tableBuffer)...)
	}

	return strings.Join(out, "\n")
}

// formatTable re-emits a run of pipe rows with uniform column widths. A run
// without a separator row is returned unchanged; it is probably not a table.
func formatTable(rows []string) []string {
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, splitCells(row))
	}

	sepIdx := -1
	var aligns []alignment
	if a, ok := parseSeparator(table[1]); ok {
		sepIdx = 1
		aligns = a
	}
	if sepIdx == -1 {
		return rows
	}

	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	for len(aligns) < colCount {
		aligns = append(aligns, alignNone)
	}

	widths := make([]int, colCount)
	for rIdx, row := range table {
		if rIdx == sepIdx {
			continue
		}
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	result := make([]string, 0, len(table))
	for rIdx, row := range table {
		var sb strings.Builder
		sb.WriteString("|")
		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")
			if rIdx == sepIdx {
				sb.WriteString(separatorCell(widths[j], aligns[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}
				sb.WriteString(padCell(content, widths[j], aligns[j]))
			}
			sb.WriteString(" |")
		}
		result = append(result, sb.String())
	}
	return result
}

// splitCells extracts trimmed cell contents from a pipe row.
func splitCells(row string) []string {
	parts := strings.Split(strings.TrimSpace(row), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// parseSeparator recognizes a header separator row (---, :---, :---:, ---:)
// and returns the per-column alignments.
func parseSeparator(cells []string) ([]alignment, bool) {
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]alignment, 0, len(cells))
	for _, cell := range cells {
		c := strings.TrimSpace(cell)
		if c == "" {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		dashes := strings.Trim(c, ":")
		if dashes == "" || strings.Count(dashes, "-") != len(dashes) {
			return nil, false
		}
		switch {
		case left && right:
			aligns = append(aligns, alignCenter)
		case right:
			aligns = append(aligns, alignRight)
		case left:
			aligns = append(aligns, alignLeft)
		default:
			aligns = append(aligns, alignNone)
		}
	}
	return aligns, true
}

func separatorCell(width int, a alignment) string {
	switch a {
	case alignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	case alignRight:
		return strings.Repeat("-", width-1) + ":"
	case alignLeft:
		return ":" + strings.Repeat("-", width-1)
	default:
		return strings.Repeat("-", width)
	}
}

func padCell(content string, width int, a alignment) string {
	pad := width - runewidth.StringWidth(content)
	if pad <= 0 {
		return content
	}
	switch a {
	case alignRight:
		return strings.Repeat(" ", pad) + content
	case alignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + content + strings.Repeat(" ", pad-left)
	default:
		return content + strings.Repeat(" ", pad)
	}
}
