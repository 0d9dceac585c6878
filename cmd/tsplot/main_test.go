package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/tserr"
)

func TestRunRequiresFixture(t *testing.T) {
	err := run(CLI{})
	require.Error(t, err)
	e, ok := tserr.As(err)
	require.True(t, ok)
	require.Equal(t, tserr.Usage, e.Kind)
}

func TestRunRequiresQAndOutUnlessDescribing(t *testing.T) {
	fixture := writeFixture(t)

	err := run(CLI{Fixture: fixture})
	require.Error(t, err)

	err = run(CLI{Fixture: fixture, Q: "name,requests,:eq,:sum"})
	require.Error(t, err)
}

func TestRunDescribeSkipsQAndOutValidation(t *testing.T) {
	fixture := writeFixture(t)
	err := run(CLI{Fixture: fixture, Describe: true})
	require.NoError(t, err)
}

func TestRunRejectsUndersizedCanvas(t *testing.T) {
	fixture := writeFixture(t)
	out := filepath.Join(t.TempDir(), "out.png")
	err := run(CLI{
		Fixture: fixture, Q: "name,requests,:eq,:sum", Out: out,
		S: "2025-01-01T00:00:00Z", E: "2025-01-01T00:05:00Z", TZ: "UTC", Step: "1m",
		W: 10, H: 10, Theme: "light", Layout: "single", Palette: "default",
	})
	require.Error(t, err)
}

func TestRunEndToEndWritesOutputFile(t *testing.T) {
	fixture := writeFixture(t)
	out := filepath.Join(t.TempDir(), "out.png")
	err := run(CLI{
		Fixture: fixture, Q: "name,requests,:eq,:sum", Out: out,
		S: "2025-01-01T00:00:00Z", E: "2025-01-01T00:05:00Z", TZ: "UTC", Step: "1m",
		W: 800, H: 400, Theme: "light", Layout: "single", Palette: "default",
	})
	require.NoError(t, err)
}

func TestExitCodeForUsageErrorIsTwo(t *testing.T) {
	require.Equal(t, 2, exitCodeFor(tserr.New(tserr.Usage, "MissingFlag", "--q is required")))
}

func TestExitCodeForOtherErrorKindIsOne(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(tserr.New(tserr.Render, "", "boom")))
}

func TestExitCodeForPlainErrorIsOne(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(errors.New("boom")))
}
