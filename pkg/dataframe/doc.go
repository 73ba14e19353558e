// Package dataframe implements the in-memory columnar table.
//
// # Overview
//
// A DataFrame is an ordered set of uniquely named columns of equal length
// plus one shared index of row labels. Each column owns its value buffer;
// every transformation (selection, filtering, sorting, merging, grouping,
// renaming, dropping, assigning) returns a new DataFrame that shares no
// mutable storage with its source. The only in-place mutation is Set, which
// replaces or appends a column on the receiver.
//
// # Construction
//
// Tables are built from ordered columns or from flat records:
//
//	df, err := dataframe.New(
//	    dataframe.Col("id", []int{1, 2, 3}),
//	    dataframe.Col("score", []interface{}{0.5, nil, 0.9}),
//	)
//
//	df, err = dataframe.FromRecords([]*dataframe.Record{
//	    dataframe.NewRecord().Set("id", value.Int(1)),
//	    dataframe.NewRecord().Set("id", value.Int(2)).Set("tag", value.Text("x")),
//	})
//
// Record input takes the union of keys in first-seen order and fills missing
// keys with null.
//
// # Indexing
//
// ILoc addresses rows by position and Loc by index label. Label slices
// include their stop label. Label lookup scans the index linearly and
// returns every match, so duplicate labels are allowed.
//
// # Null Policy
//
// Arithmetic with a null operand is null, comparisons with a null operand are
// false, reducers skip nulls, sorts place nulls in one block at the start or
// end, and group keys treat null as an ordinary key that sorts last.
//
// # Concurrency
//
// A DataFrame is not safe for concurrent mutation. Callers sharing a table
// across goroutines must serialize access or work on copies.
package dataframe
