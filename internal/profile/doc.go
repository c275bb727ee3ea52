// Package profile computes descriptive statistics for a dataset.Table.
//
// Compute is pure: it reads the table and returns a Profile holding the
// shape, the column names, the duplicate row count and one ColumnSummary
// per column. Numeric columns are summarized by count, mean, sample
// standard deviation, minimum, quartiles and maximum. Every other column is
// summarized by count, number of distinct values, the most frequent value
// and its frequency.
//
// Statistics that are undefined for a column are nil, so a Profile encodes
// to JSON without NaN values.
package profile
