package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignMillisFloorsPositiveAndNegative(t *testing.T) {
	require.Equal(t, int64(5000), alignMillis(5999, 1000))
	require.Equal(t, int64(-6000), alignMillis(-5001, 1000))
	require.Equal(t, int64(0), alignMillis(0, 1000))
}

func TestBuildContextAlignsToStep(t *testing.T) {
	cli := CLI{S: "2025-01-01T00:00:00Z", E: "2025-01-01T00:01:30Z", TZ: "UTC", Step: "1m"}
	ctx, err := buildContext(cli)
	require.NoError(t, err)
	require.Equal(t, int64(0), ctx.Start%60000)
	require.Equal(t, int64(0), ctx.End%60000)
	require.True(t, ctx.End > ctx.Start)
}
