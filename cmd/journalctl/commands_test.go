package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dogmatiq/filejournal/internal/test"
)

// run executes journalctl with the given arguments against the store in dir
// and returns its standard output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	opts := &rootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := errors.Join(
		cmd.ExecuteContext(ctx),
		opts.close(),
	)

	if stderr.Len() != 0 {
		t.Log(stderr.String())
	}

	return stdout.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) []string {
	t.Helper()

	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatal(err)
	}

	return strings.Fields(out)
}

func TestCommands(t *testing.T) {
	t.Parallel()

	t.Run("it manipulates journals", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		mustRun(t, dir, "append", "<journal>", "<record-1>", "<record-2>")

		test.Expect(
			t,
			"unexpected records",
			mustRun(t, dir, "cat", "<journal>"),
			[]string{"<record-1>", "<record-2>"},
		)

		mustRun(t, dir, "cp", "<journal>", "<copy>")

		test.Expect(
			t,
			"unexpected journals",
			mustRun(t, dir, "ls"),
			[]string{"<copy>", "<journal>"},
		)

		test.Expect(
			t,
			"unexpected records",
			mustRun(t, dir, "cat", "--hex", "<copy>"),
			[]string{"3c7265636f72642d313e", "3c7265636f72642d323e"},
		)

		mustRun(t, dir, "rm", "<journal>")

		test.Expect(
			t,
			"unexpected existence",
			mustRun(t, dir, "exists", "<journal>"),
			[]string{"false"},
		)

		test.Expect(
			t,
			"unexpected existence",
			mustRun(t, dir, "exists", "<copy>"),
			[]string{"true"},
		)

		mustRun(t, dir, "wipe")

		test.Expect(
			t,
			"unexpected journals",
			mustRun(t, dir, "ls"),
			nil,
		)
	})

	t.Run("it appends hexadecimal records", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		mustRun(t, dir, "append", "--hex", "<journal>", "00ff")

		test.Expect(
			t,
			"unexpected records",
			mustRun(t, dir, "cat", "--hex", "<journal>"),
			[]string{"00ff"},
		)
	})

	t.Run("it returns an error if the journal name is invalid", func(t *testing.T) {
		t.Parallel()

		if _, err := run(t, t.TempDir(), "cat", ""); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it uses the version store DSN", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		mustRun(t, dir, "--version-dsn", "memory:", "append", "<journal>", "<record>")

		test.Expect(
			t,
			"unexpected records",
			mustRun(t, dir, "--version-dsn", "sqlite://"+dir+"/versions.sqlite", "cat", "<journal>"),
			[]string{},
		)
	})
}
