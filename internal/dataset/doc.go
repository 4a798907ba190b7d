// Package dataset loads the hourly bike-share CSV into typed records.
//
// Loading goes through a gota DataFrame with forced column types, so a
// malformed number or date surfaces as an error naming the row and column
// instead of a silently dropped value. Categorical columns accept both the
// numeric codes of the raw UCI export and the labels of the cleaned file:
//
//	ds, err := dataset.Load(ctx, "data/clean_bikeshare_hour.csv")
//	if err != nil {
//	    return err
//	}
//	rng, err := dataset.ParseDateRange("2011-03-01", "2011-06-30", ds.Bounds())
//	if err != nil {
//	    return err
//	}
//	filtered := ds.Filter(rng)
//
// Category levels are computed once on the full file and shared by every
// filtered copy, so downstream group-bys still emit levels that the filtered
// range does not contain.
package dataset
