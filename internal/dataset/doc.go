// Package dataset holds the in-memory table that csvinspect profiles,
// cleans and charts.
//
// A Table wraps a gota DataFrame. Loading parses delimited text with a
// header row, maps the configured missing-value tokens to missing cells and
// lets gota infer one type per column (int, float, bool or string). String
// columns whose every value is an ISO-8601 date are reported as dates, and
// columns without any value are reported as floats.
//
// Tables are never mutated after loading: DropMissing returns a new Table.
package dataset
