package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeRelativeGrammar(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	got, err := parseTime("e-1h", now)
	require.NoError(t, err)
	require.Equal(t, now.Add(-time.Hour), got)

	got, err = parseTime("s-7d", now)
	require.NoError(t, err)
	require.Equal(t, now.Add(-7*24*time.Hour), got)

	got, err = parseTime("e-0s", now)
	require.NoError(t, err)
	require.Equal(t, now, got)
}

func TestParseTimeAcceptsISO8601(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := parseTime("2025-06-15T00:00:00Z", now)
	require.NoError(t, err)
	require.Equal(t, 2025, got.Year())
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, err := parseTime("not-a-time", time.Now())
	require.Error(t, err)
}

func TestParseStepRejectsZeroAndNegative(t *testing.T) {
	_, err := parseStep("0s")
	require.Error(t, err)
	_, err = parseStep("-1m")
	require.Error(t, err)
}

func TestParseStepParsesMillis(t *testing.T) {
	ms, err := parseStep("15s")
	require.NoError(t, err)
	require.Equal(t, int64(15000), ms)
}

func TestUnitDurationCoversAllUnits(t *testing.T) {
	require.Equal(t, time.Second, unitDuration("s"))
	require.Equal(t, time.Minute, unitDuration("m"))
	require.Equal(t, time.Hour, unitDuration("h"))
	require.Equal(t, 24*time.Hour, unitDuration("d"))
	require.Equal(t, 7*24*time.Hour, unitDuration("w"))
}
