// Package dataset reads knapsack datasets from the line-oriented text format
// and discovers dataset files in an input directory.
package dataset
