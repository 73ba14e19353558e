package dataframe_test

import (
	"fmt"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
)

func Example() {
	df := dataframe.Must(dataframe.New(
		dataframe.Col("city", []string{"oslo", "lima", "oslo"}),
		dataframe.Col("temp", []float64{4.5, 19, 6.5}),
	))

	g, err := df.GroupBy("city")
	if err != nil {
		panic(err)
	}
	out, err := g.Mean()
	if err != nil {
		panic(err)
	}
	fmt.Print(out)
	// Output:
	//    city  temp
	// 0  lima  19.0
	// 1  oslo   5.5
}

func ExampleMerge() {
	people := dataframe.Must(dataframe.New(
		dataframe.Col("id", []int{1, 2}),
		dataframe.Col("name", []string{"ada", "bo"}),
	))
	orders := dataframe.Must(dataframe.New(
		dataframe.Col("id", []int{2, 2, 3}),
		dataframe.Col("total", []int{10, 20, 30}),
	))

	out, err := dataframe.Merge(people, orders, dataframe.Left, "id")
	if err != nil {
		panic(err)
	}
	fmt.Print(out)
	// Output:
	//    id  name  total
	// 0   1   ada   null
	// 1   2    bo     10
	// 2   2    bo     20
}

func ExampleDataFrame_SortValues() {
	df := dataframe.Must(dataframe.New(
		dataframe.Col("A", []interface{}{3, 1, nil, 2}),
	))
	out, err := df.SortValues("A", true, dataframe.NALast)
	if err != nil {
		panic(err)
	}
	fmt.Print(out)
	// Output:
	//       A
	// 1     1
	// 3     2
	// 0     3
	// 2  null
}
