// Package chart renders exploratory charts of a dataset.Table to PNG files.
//
// A Renderer writes one histogram per numeric column and a bar chart of the
// most frequent values of the first categorical column. Images are drawn
// with gonum/plot.
package chart
