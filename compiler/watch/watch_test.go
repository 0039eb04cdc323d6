package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = 5 * time.Second

func startWatch(t *testing.T, path string, fn func(context.Context) error, opts Options) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, fn, opts)
	}()
	t.Cleanup(cancel)
	return cancel, done
}

func next(t *testing.T, calls <-chan string) string {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(wait):
		t.Fatal("timed out waiting for a run")
		return ""
	}
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE a (id varchar);"), 0o644))

	calls := make(chan string, 10)
	fn := func(context.Context) error {
		b, err := os.ReadFile(path)
		calls <- string(b)
		return err
	}
	cancel, done := startWatch(t, path, fn, Options{Debounce: 20 * time.Millisecond})

	assert.Equal(t, "CREATE TABLE a (id varchar);", next(t, calls))

	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE b (id varchar);"), 0o644))
	assert.Equal(t, "CREATE TABLE b (id varchar);", next(t, calls))

	// Rewriting identical content does not trigger a run.
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE b (id varchar);"), 0o644))
	select {
	case c := <-calls:
		t.Fatalf("unexpected run with %q", c)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(wait):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_Rename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	calls := make(chan string, 10)
	fn := func(context.Context) error {
		b, _ := os.ReadFile(path)
		calls <- string(b)
		return nil
	}
	startWatch(t, path, fn, Options{Debounce: 20 * time.Millisecond})
	assert.Equal(t, "v1", next(t, calls))

	tmp := filepath.Join(dir, "schema.sql.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.Equal(t, "v2", next(t, calls))
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	calls := make(chan string, 10)
	fn := func(context.Context) error {
		calls <- "run"
		return nil
	}
	startWatch(t, path, fn, Options{Debounce: 20 * time.Millisecond})
	next(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sql"), []byte("x"), 0o644))
	select {
	case <-calls:
		t.Fatal("unexpected run for another file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRun_OnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	errs := make(chan error, 10)
	boom := errors.New("boom")
	fn := func(context.Context) error { return boom }
	startWatch(t, path, fn, Options{
		Debounce: 20 * time.Millisecond,
		OnError:  func(err error) { errs <- err },
	})

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(wait):
		t.Fatal("timed out waiting for the error")
	}

	// The watcher keeps running after an error.
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(wait):
		t.Fatal("timed out waiting for the second run")
	}
}

func TestRun_MissingDir(t *testing.T) {
	err := Run(context.Background(), filepath.Join(t.TempDir(), "missing", "schema.sql"),
		func(context.Context) error { return nil }, Options{})
	require.Error(t, err)
}
