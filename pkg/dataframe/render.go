package dataframe

import (
	"unicode/utf8"

	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
)

// DisplayOptions bounds the text rendering of a table.
type DisplayOptions struct {
	// MaxRows is the number of rows shown before eliding the middle. 0 shows all.
	MaxRows int
	// MaxColWidth truncates wider cells. 0 disables truncation.
	MaxColWidth int
}

// DefaultDisplay is used by String.
var DefaultDisplay = DisplayOptions{MaxRows: 20, MaxColWidth: 30}

// String renders the table with DefaultDisplay.
func (df *DataFrame) String() string {
	return df.Render(DefaultDisplay)
}

// Summary returns a one-line description of the table's shape.
func (df *DataFrame) Summary() string {
	rows, cols := df.Shape()
	return stringpool.Sprintf("<DataFrame: %d rows x %d cols>", rows, cols)
}

// Render lays the table out as right-aligned text columns headed by the
// column names, with the index labels on the left. When the row count
// exceeds MaxRows, the first and last halves are shown around a "..." line.
func (df *DataFrame) Render(opts DisplayOptions) string {
	shown := make([]int, 0, df.length)
	elided := opts.MaxRows > 0 && df.length > opts.MaxRows
	if elided {
		head := (opts.MaxRows + 1) / 2
		tail := opts.MaxRows / 2
		for i := 0; i < head; i++ {
			shown = append(shown, i)
		}
		for i := df.length - tail; i < df.length; i++ {
			shown = append(shown, i)
		}
	} else {
		for i := 0; i < df.length; i++ {
			shown = append(shown, i)
		}
	}

	cell := func(s string) string {
		if opts.MaxColWidth > 0 {
			return stringpool.Truncate(s, opts.MaxColWidth)
		}
		return s
	}

	// grid[0] is the header; column 0 holds index labels.
	grid := make([][]string, len(shown)+1)
	grid[0] = make([]string, len(df.order)+1)
	for c, name := range df.order {
		grid[0][c+1] = cell(name)
	}
	for r, pos := range shown {
		line := make([]string, len(df.order)+1)
		line[0] = cell(df.index[pos].String())
		for c, name := range df.order {
			line[c+1] = cell(df.columns[name][pos].String())
		}
		grid[r+1] = line
	}

	widths := make([]int, len(df.order)+1)
	for _, line := range grid {
		for c, s := range line {
			widths[c] = max(widths[c], utf8.RuneCountInString(s))
		}
	}

	size := stringpool.Small
	if len(shown)*len(widths) > 256 {
		size = stringpool.Medium
	}
	return stringpool.BuildWith(size, func(b *stringpool.Builder) {
		for r, line := range grid {
			if elided && r == (opts.MaxRows+1)/2+1 {
				writeLine(b, ellipsis(len(line)), widths)
			}
			writeLine(b, line, widths)
		}
		if elided || len(df.order) == 0 {
			rows, cols := df.Shape()
			b.WriteString(stringpool.Sprintf("\n[%d rows x %d columns]", rows, cols))
		}
	})
}

func ellipsis(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "..."
	}
	return out
}

func writeLine(b *stringpool.Builder, line []string, widths []int) {
	for c, s := range line {
		if c > 0 {
			b.WriteString("  ")
		}
		if c == 0 {
			b.WriteString(s)
			b.WriteRepeat(' ', widths[0]-utf8.RuneCountInString(s))
			continue
		}
		stringpool.PadLeft(b, s, widths[c])
	}
	_ = b.WriteByte('\n')
}
