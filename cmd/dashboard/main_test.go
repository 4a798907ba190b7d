package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
	"bikeshare/internal/kpi"
	"bikeshare/internal/shared/testutil"
	"bikeshare/pkg/contracts/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func sampleDataset(t *testing.T) string {
	t.Helper()
	return testutil.WriteBikeshareCSV(t, t.TempDir(), testutil.SampleRows()...)
}

func TestKPICommand(t *testing.T) {
	out, err := execute(t, "kpi", "--data", sampleDataset(t))
	require.NoError(t, err)

	assert.Contains(t, out, "2011-01-01 to 2012-07-04")
	assert.Contains(t, out, "Total Rental")
	assert.Contains(t, out, "800")
	assert.Contains(t, out, "Daily Highest Rental")
}

func TestKPICommandJSONWithRange(t *testing.T) {
	out, err := execute(t, "kpi", "--data", sampleDataset(t), "--json",
		"--start", "2011-01-01", "--end", "2011-01-31")
	require.NoError(t, err)

	var widgets []kpi.Widget
	require.NoError(t, json.Unmarshal([]byte(out), &widgets))
	require.NotEmpty(t, widgets)
	assert.Equal(t, kpi.Widget{Section: "total", Label: "Total Rental", Value: "100"}, widgets[0])
}

func TestKPICommandRejectsBadDates(t *testing.T) {
	data := sampleDataset(t)

	_, err := execute(t, "kpi", "--data", data, "--start", "01/02/2011")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")

	_, err = execute(t, "kpi", "--data", data, "--start", "2011-07-01", "--end", "2011-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be before")

	_, err = execute(t, "kpi", "--data", data, "--start", "2010-01-01")
	assert.Error(t, err, "start outside the dataset")
}

func TestKPICommandMissingDataset(t *testing.T) {
	_, err := execute(t, "kpi", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export")

	stdout, err := execute(t, "export", "--data", sampleDataset(t), "--out", out)
	require.NoError(t, err)

	for _, name := range domain.ViewNames {
		assert.FileExists(t, filepath.Join(out, name+".csv"))
	}
	assert.FileExists(t, filepath.Join(out, config.DefaultWorkbookName))
	assert.Contains(t, stdout, config.DefaultWorkbookName)

	hourly, err := os.ReadFile(filepath.Join(out, domain.ViewHourlyRental+".csv"))
	require.NoError(t, err)
	assert.Equal(t, len(testutil.SampleRows())+1, bytes.Count(hourly, []byte("\n")))
}

func TestExportCommandRequiresOut(t *testing.T) {
	_, err := execute(t, "export", "--data", sampleDataset(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out")
}

func TestServeRejectsUnknownArgs(t *testing.T) {
	_, err := execute(t, "serve", "extra")
	assert.Error(t, err)
}
