package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bikeshare/internal/infrastructure"
	"bikeshare/internal/services"
	"bikeshare/internal/shared/testutil"
	"bikeshare/pkg/contracts/domain"
)

const testDebounce = 100 * time.Millisecond

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingReloader struct {
	mu       sync.Mutex
	calls    int
	errs     []error
	traceIDs []string
}

func (r *countingReloader) Reload(ctx context.Context) (domain.DatasetInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.traceIDs = append(r.traceIDs, infrastructure.GetTraceID(ctx))
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return domain.DatasetInfo{}, err
	}
	return domain.DatasetInfo{Rows: r.calls}, nil
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func startWatcher(t *testing.T, path string, r Reloader) *Watcher {
	t.Helper()
	w, err := New(path, testDebounce, r, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return w
}

func TestWatcherDebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	r := &countingReloader{}
	w := startWatcher(t, path, r)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))
	}

	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, r.count())

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, int64(1))
	assert.Equal(t, int64(1), stats.Reloads)
}

func TestWatcherTagsEachReloadWithTraceID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	r := &countingReloader{}
	startWatcher(t, path, r)

	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))
	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.NotEmpty(t, r.traceIDs[0])
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	r := &countingReloader{}
	startWatcher(t, path, r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "day.csv"), []byte("x\n"), 0644))
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, r.count())
}

func TestWatcherPicksUpReplacedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	r := &countingReloader{}
	startWatcher(t, path, r)

	tmp := filepath.Join(dir, ".hour.csv.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("b\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherSurvivesFailedReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	r := &countingReloader{errs: []error{errors.New("missing required column: cnt")}}
	w := startWatcher(t, path, r)

	require.NoError(t, os.WriteFile(path, []byte("broken\n"), 0644))
	require.Eventually(t, func() bool { return w.Stats().Failures == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("fixed\n"), 0644))
	require.Eventually(t, func() bool { return w.Stats().Reloads == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, r.count())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "hour.csv"), 0, &countingReloader{}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.wait)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
	assert.ErrorIs(t, w.Start(context.Background()), ErrStopped)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "hour.csv"), testDebounce, &countingReloader{}, quietLogger())
	require.NoError(t, err)
	assert.NotPanics(t, w.Stop)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "hour.csv"), testDebounce, &countingReloader{}, quietLogger())
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}

func TestWatcherExitsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "hour.csv"), testDebounce, &countingReloader{}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(time.Second):
		t.Fatal("event loop did not exit after cancel")
	}
	w.Stop()
}

func TestWatcherReloadsDashboardService(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteBikeshareCSV(t, dir, testutil.SampleRows()...)

	svc := services.NewDashboardService(services.DashboardConfig{Path: path}, nil, nil, quietLogger())
	require.NoError(t, svc.Load(context.Background()))

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(testutil.SampleRows()), info.Rows)

	startWatcher(t, path, svc)

	require.NoError(t, os.WriteFile(path, []byte(testutil.BikeshareCSV(testutil.SampleRows()[:2]...)), 0644))

	require.Eventually(t, func() bool {
		info, err := svc.Info(context.Background())
		return err == nil && info.Rows == 2
	}, 2*time.Second, 10*time.Millisecond)
}
