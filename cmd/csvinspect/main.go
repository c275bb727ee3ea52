// Package main provides the entry point for the csvinspect CLI.
//
// csvinspect profiles a delimited text file: it prints the shape, column
// types, missing values, duplicate rows and descriptive statistics, can drop
// incomplete rows and save a cleaned copy, and renders one histogram per
// numeric column plus a bar chart of the first categorical column.
//
// Usage:
//
//	csvinspect data.csv
//	csvinspect data.csv --dropna --saveclean
//
// See --help for all available options.
package main

// main is the entry point for csvinspect.
func main() {
	Execute()
}
