// Package shared holds helpers used across the dashboard packages.
//
// The testutil subpackage provides a capturing slog handler and bike-share
// CSV fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteBikeshareCSV(t, t.TempDir(), testutil.SampleRows()...)
//	    // load path with logger, then assert on logs
//	}
//
// Nothing here carries business logic.
package shared
