package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

// LaTeX writes a booktabs tabular. Every column is padded to the width of its
// widest entry; methods get a \multicolumn header above their metrics.
func LaTeX(w io.Writer, t *table.Table) error {
	if err := checkShape(t); err != nil {
		return err
	}

	groups := methodGroups(t.Columns)
	twoLevel := false
	for _, c := range t.Columns {
		if c.Metric != "" {
			twoLevel = true
			break
		}
	}

	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, latexEscaper.Replace(rowHeader(t)), QueriesHeader)
	for _, c := range t.Columns {
		if twoLevel {
			header = append(header, latexEscaper.Replace(c.Metric.Short()))
		} else {
			header = append(header, latexEscaper.Replace(c.Label))
		}
	}

	body := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		body = append(body, escapeAll(Fields(t, row)))
	}
	footer := make([][]string, 0, len(t.Footer))
	for _, row := range t.Footer {
		footer = append(footer, escapeAll(Fields(t, row)))
	}

	widths := make([]int, len(header))
	for _, line := range append(append([][]string{header}, body...), footer...) {
		for i, f := range line {
			widths[i] = max(widths[i], len(f))
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\\begin{tabular}{%s}\n", columnSpec(groups, twoLevel))
	fmt.Fprintln(bw, `\toprule`)
	if twoLevel {
		parts := []string{pad("", widths[0]), pad("", widths[1])}
		for i, g := range groups {
			align := "c|"
			if i == len(groups)-1 {
				align = "c"
			}
			parts = append(parts, fmt.Sprintf(`\multicolumn{%d}{%s}{%s}`, g.span, align, latexEscaper.Replace(g.label)))
		}
		fmt.Fprintln(bw, strings.Join(parts, " & ")+` \\`)
	}
	writeLatexLine(bw, header, widths)
	fmt.Fprintln(bw, `\midrule`)
	for _, line := range body {
		writeLatexLine(bw, line, widths)
	}
	if len(footer) > 0 {
		fmt.Fprintln(bw, `\midrule`)
		for _, line := range footer {
			writeLatexLine(bw, line, widths)
		}
	}
	fmt.Fprintln(bw, `\bottomrule`)
	fmt.Fprintln(bw, `\end{tabular}`)
	return bw.Flush()
}

type methodGroup struct {
	label string
	span  int
}

func methodGroups(cols []table.Column) []methodGroup {
	var groups []methodGroup
	for _, c := range cols {
		if n := len(groups); n > 0 && groups[n-1].label == c.Label {
			groups[n-1].span++
			continue
		}
		groups = append(groups, methodGroup{label: c.Label, span: 1})
	}
	return groups
}

func columnSpec(groups []methodGroup, twoLevel bool) string {
	var b strings.Builder
	b.WriteString("l|r")
	for _, g := range groups {
		b.WriteString("|")
		if twoLevel {
			b.WriteString(strings.Repeat("c", g.span))
		} else {
			b.WriteString("c")
		}
	}
	return b.String()
}

func writeLatexLine(w io.Writer, fields []string, widths []int) {
	padded := make([]string, len(fields))
	for i, f := range fields {
		padded[i] = pad(f, widths[i])
	}
	fmt.Fprintln(w, strings.Join(padded, " & ")+` \\`)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func escapeAll(fields []string) []string {
	for i, f := range fields {
		fields[i] = latexEscaper.Replace(f)
	}
	return fields
}
