// Package charts renders the dashboard figures as PNG images with gonum/plot.
//
// Each figure is identified by a stable id used in chart URLs. Per-year
// figures stack one panel per year level of the dataset under a shared title.
package charts
