package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/series"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show the shape and column kinds of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			rows, cols := df.Shape()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d\ncolumns: %d\n", rows, cols)
			kinds := df.Dtypes()
			width := 0
			for _, name := range df.Columns() {
				width = max(width, len(name))
			}
			for i, name := range df.Columns() {
				fmt.Fprintf(out, "  %-*s  %s\n", width, name, kinds[i])
			}
			return nil
		},
	}
}

func newHeadCmd(a *app) *cobra.Command {
	var n int
	var tail bool
	cmd := &cobra.Command{
		Use:   "head FILE",
		Short: "Print the first (or last) rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			if tail {
				df = df.Tail(n)
			} else {
				df = df.Head(n)
			}
			return a.emit(cmd, df, "", "")
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows")
	cmd.Flags().BoolVar(&tail, "tail", false, "Show the last rows instead")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var columns, indexLabel string
	cmd := &cobra.Command{
		Use:   "convert INPUT OUTPUT",
		Short: "Rewrite a table in another format or compression",
		Long: `Rewrite a table in another format or compression. Formats and
compression follow the file extensions, e.g.

  lesserpandas convert events.csv events.arrow.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			if columns != "" {
				df, err = a.transform("select", func() (*dataframe.DataFrame, error) {
					return selectColumns(df, splitList(columns))
				})
				if err != nil {
					return err
				}
			}
			return a.emit(cmd, df, args[1], indexLabel)
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Comma separated columns to keep, in order")
	cmd.Flags().StringVar(&indexLabel, "index-label", "", "Write the row index as a leading CSV column of this name")
	return cmd
}

// selectColumns is Select with missing names reported instead of skipped.
func selectColumns(df *dataframe.DataFrame, names []string) (*dataframe.DataFrame, error) {
	for _, name := range names {
		if !df.Has(name) {
			return nil, dferrors.Newf(dferrors.ErrorTypeKey, "column %q not found", name).
				WithDetail("column", name)
		}
	}
	return df.Select(names...), nil
}

func newSortCmd(a *app) *cobra.Command {
	var by, naPosition, output string
	var descending bool
	cmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Sort rows by one or more columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := dataframe.ParseNAPosition(naPosition)
			if err != nil {
				return err
			}
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			keys := splitList(by)
			sorted, err := a.transform("sort", func() (*dataframe.DataFrame, error) {
				if len(keys) == 1 {
					return df.SortValues(keys[0], !descending, pos)
				}
				sk := make([]dataframe.SortKey, len(keys))
				for i, k := range keys {
					sk[i] = dataframe.SortKey{Column: k, Descending: descending, NAPosition: pos}
				}
				return df.SortBy(sk...)
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, sorted, output, "")
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "Comma separated sort columns (required)")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort in descending order")
	cmd.Flags().StringVar(&naPosition, "na-position", "last", "Place nulls first or last")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

// comparisons are tried longest first so that ">=" is not read as ">".
var comparisons = []struct {
	token string
	apply func(*series.Series, interface{}) (*series.Series, error)
}{
	{"==", (*series.Series).Eq},
	{"!=", (*series.Series).Ne},
	{"<=", (*series.Series).Le},
	{">=", (*series.Series).Ge},
	{"<", (*series.Series).Lt},
	{">", (*series.Series).Gt},
}

// parseCondition splits "column op literal".
func parseCondition(expr string) (column string, op int, lit value.Value, err error) {
	for i, c := range comparisons {
		if at := strings.Index(expr, c.token); at > 0 {
			column = strings.TrimSpace(expr[:at])
			lit = parseLiteral(strings.TrimSpace(expr[at+len(c.token):]))
			return column, i, lit, nil
		}
	}
	return "", 0, value.Null(), dferrors.Newf(dferrors.ErrorTypeValue,
		"cannot parse condition %q, expected COLUMN OP VALUE with OP one of == != < <= > >=", expr)
}

// whereMask evaluates every condition against df and ANDs the results.
func whereMask(df *dataframe.DataFrame, conditions []string) (*series.Series, error) {
	var mask *series.Series
	for _, expr := range conditions {
		column, op, lit, err := parseCondition(expr)
		if err != nil {
			return nil, err
		}
		col, err := df.Column(column)
		if err != nil {
			return nil, err
		}
		m, err := comparisons[op].apply(col, lit)
		if err != nil {
			return nil, err
		}
		if mask == nil {
			mask = m
			continue
		}
		if mask, err = mask.And(m); err != nil {
			return nil, err
		}
	}
	return mask, nil
}

func newFilterCmd(a *app) *cobra.Command {
	var where []string
	var output string
	cmd := &cobra.Command{
		Use:   "filter FILE",
		Short: "Keep the rows matching every condition",
		Long: `Keep the rows matching every --where condition. A condition is
COLUMN OP VALUE where OP is one of == != < <= > >=. VALUE is read as null,
an integer, a float, true/false or text; quote it to force text.

  lesserpandas filter people.csv --where 'age >= 30' --where 'city == "lima"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			filtered, err := a.transform("filter", func() (*dataframe.DataFrame, error) {
				mask, err := whereMask(df, where)
				if err != nil {
					return nil, err
				}
				return df.Where(mask)
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, filtered, output, "")
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Condition COLUMN OP VALUE; repeat to AND several (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var on, how, output string
	cmd := &cobra.Command{
		Use:   "merge LEFT RIGHT",
		Short: "Join two tables on key columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jt, err := dataframe.ParseJoinType(how)
			if err != nil {
				return err
			}
			left, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			right, err := a.load(cmd, args[1])
			if err != nil {
				return err
			}
			merged, err := a.transform("merge", func() (*dataframe.DataFrame, error) {
				return left.Merge(right, jt, splitList(on)...)
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, merged, output, "")
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Comma separated key columns present in both tables (required)")
	cmd.Flags().StringVar(&how, "how", string(dataframe.Inner), "Join type: inner, left, right or outer")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

// parseAggs reads COLUMN:REDUCER pairs.
func parseAggs(specs []string) ([]dataframe.Aggregation, error) {
	aggs := make([]dataframe.Aggregation, 0, len(specs))
	for _, spec := range specs {
		column, reducer, ok := strings.Cut(spec, ":")
		if !ok || column == "" || reducer == "" {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue,
				"cannot parse aggregation %q, expected COLUMN:REDUCER", spec)
		}
		aggs = append(aggs, dataframe.Agg(column, reducer))
	}
	return aggs, nil
}

func newGroupByCmd(a *app) *cobra.Command {
	var by, reducer, output string
	var aggs []string
	var asIndex bool
	cmd := &cobra.Command{
		Use:   "groupby FILE",
		Short: "Group rows by key columns and reduce each group",
		Long: `Group rows by key columns and reduce each group. With --agg, each
COLUMN:REDUCER pair produces a COLUMN_REDUCER column; without it, --reducer
is applied to every numeric non-key column. Reducers are sum, mean, count,
min and max.

  lesserpandas groupby sales.csv --by region --agg amount:sum --agg amount:max`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := parseAggs(aggs)
			if err != nil {
				return err
			}
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			grouped, err := a.transform("groupby", func() (*dataframe.DataFrame, error) {
				g, err := df.GroupBy(splitList(by)...)
				if err != nil {
					return nil, err
				}
				if asIndex {
					g = g.WithIndex()
				}
				if len(requested) > 0 {
					return g.Agg(requested...)
				}
				switch reducer {
				case series.ReduceSum:
					return g.Sum()
				case series.ReduceMean:
					return g.Mean()
				case series.ReduceCount:
					return g.Count()
				case series.ReduceMin:
					return g.Min()
				case series.ReduceMax:
					return g.Max()
				default:
					return nil, dferrors.Newf(dferrors.ErrorTypeValue, "unsupported reducer %q", reducer)
				}
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, grouped, output, "")
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "Comma separated key columns (required)")
	cmd.Flags().StringArrayVar(&aggs, "agg", nil, "COLUMN:REDUCER pair; repeat for several")
	cmd.Flags().StringVar(&reducer, "reducer", series.ReduceSum, "Reducer for every numeric column when --agg is absent")
	cmd.Flags().BoolVar(&asIndex, "as-index", false, "Label result rows with the group keys")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newConcatCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "concat FILE...",
		Short: "Stack tables vertically",
		Long: `Stack tables vertically. Columns are the union of the inputs in
first-seen order; cells a table lacks are null. The result gets a fresh
0..n-1 index.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames := make([]*dataframe.DataFrame, 0, len(args))
			for _, path := range args {
				df, err := a.load(cmd, path)
				if err != nil {
					return err
				}
				frames = append(frames, df)
			}
			stacked, err := a.transform("concat", func() (*dataframe.DataFrame, error) {
				return dataframe.Concat(frames...)
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, stacked, output, "")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	return cmd
}

// countsFrame turns a value_counts result into a two-column table.
func countsFrame(counts *series.Series) (*dataframe.DataFrame, error) {
	return dataframe.New(
		dataframe.Col(counts.Name(), counts.Index()),
		dataframe.Col("count", counts.Values()),
	)
}

func newValueCountsCmd(a *app) *cobra.Command {
	var column, output string
	cmd := &cobra.Command{
		Use:   "value-counts FILE",
		Short: "Count the occurrences of each distinct value of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			counts, err := a.transform("value_counts", func() (*dataframe.DataFrame, error) {
				col, err := df.Column(column)
				if err != nil {
					return nil, err
				}
				return countsFrame(col.ValueCounts())
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, counts, output, "")
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "Column to count (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}
