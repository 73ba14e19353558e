package frameio

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// readCSV parses an optional header row followed by data rows. Each cell
// is inferred independently: a null token is null, then int, float and bool
// are tried, and anything else is text. Columns mixing ints and floats are
// widened to float.
func readCSV(r io.Reader, opts Options) (*dataframe.DataFrame, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.ReuseRecord = true

	nulls := map[string]struct{}{"": {}}
	if opts.NullValues != nil {
		nulls = make(map[string]struct{}, len(opts.NullValues))
		for _, tok := range opts.NullValues {
			nulls[tok] = struct{}{}
		}
	}
	p := &cellParser{intern: stringpool.NewIntern(), nulls: nulls, keepText: opts.KeepText}

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataframe.New()
	}
	if err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to read CSV header")
	}

	names := make([]string, len(first))
	cols := make([][]value.Value, len(first))
	if opts.NoHeader {
		for i, c := range first {
			names[i] = strconv.Itoa(i)
			cols[i] = append(cols[i], p.parse(c))
		}
	} else {
		copy(names, first)
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to read CSV row").
				WithDetail("line", line)
		}
		for i, c := range row {
			cols[i] = append(cols[i], p.parse(c))
		}
	}

	data := make([]dataframe.ColumnData, len(names))
	for i, name := range names {
		if cols[i] == nil {
			cols[i] = []value.Value{}
		}
		if !opts.KeepText {
			promoteMixedNumbers(cols[i])
		}
		data[i] = dataframe.Col(name, cols[i])
	}
	return dataframe.New(data...)
}

type cellParser struct {
	intern   *stringpool.Intern
	nulls    map[string]struct{}
	keepText bool
}

func (p *cellParser) parse(c string) value.Value {
	if _, ok := p.nulls[c]; ok {
		return value.Null()
	}
	if p.keepText {
		return value.Text(p.intern.Get(c))
	}
	if i, err := strconv.ParseInt(c, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(c, 64); err == nil {
		return value.Float(f)
	}
	switch c {
	case "true", "True", "TRUE":
		return value.Bool(true)
	case "false", "False", "FALSE":
		return value.Bool(false)
	}
	return value.Text(p.intern.Get(c))
}

// writeCSV emits a header and one line per row. Nulls are empty cells.
func writeCSV(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter

	names := df.Columns()
	withIndex := opts.IndexLabel != ""
	width := len(names)
	if withIndex {
		width++
	}

	line := make([]string, 0, width)
	if !opts.NoHeader {
		if withIndex {
			line = append(line, opts.IndexLabel)
		}
		line = append(line, names...)
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	it := df.Rows()
	for it.Next() {
		line = line[:0]
		if withIndex {
			line = append(line, cell(it.Label()))
		}
		for _, v := range it.Values() {
			line = append(line, cell(v))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v value.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}
