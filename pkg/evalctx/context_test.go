package evalctx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidatesInvariants(t *testing.T) {
	_, err := New(0, 1000, 0, "UTC")
	require.Error(t, err, "step must be positive")

	_, err = New(1000, 1000, 100, "UTC")
	require.Error(t, err, "end must be greater than start")

	_, err = New(0, 1500, 1000, "UTC")
	require.Error(t, err, "window must be a multiple of step")

	_, err = New(0, 1000, 1000, "Not/ARealZone")
	require.Error(t, err, "unknown timezone")

	ctx, err := New(0, 5000, 1000, "")
	require.NoError(t, err)
	require.Equal(t, "UTC", ctx.Timezone)
	require.Equal(t, 5, ctx.Samples())
}

func TestLocationResolvesNamedZone(t *testing.T) {
	ctx := Context{Timezone: "America/New_York"}
	require.Equal(t, "America/New_York", ctx.Location().String())
}
