// Package views derives the dashboard tables from a filtered dataset.
//
// Every function is pure: it reads the records and category levels of a
// dataset and returns a new slice of contract rows. Categorical group-bys emit
// every level combination, zero totals included; date group-bys emit observed
// dates only. Build runs all of them concurrently and returns one bundle.
package views
