package seq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignedStart(t *testing.T) {
	require.Equal(t, int64(60000), AlignedStart(65000, 60000))
	require.Equal(t, int64(60000), AlignedStart(60000, 60000))
	require.Equal(t, int64(-60000), AlignedStart(-1000, 60000))
}

func TestNewRejectsUnalignedStart(t *testing.T) {
	_, err := New(61000, 60000, []float64{1, 2})
	require.Error(t, err)
}

func TestBoundedTruncatesAndExtends(t *testing.T) {
	s, err := New(0, 1000, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	b, err := s.Bounded(2000, 4000)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, b.Values)

	b, err = s.Bounded(4000, 7000)
	require.NoError(t, err)
	require.Equal(t, float64(5), b.Values[0])
	require.True(t, math.IsNaN(b.Values[1]))
	require.True(t, math.IsNaN(b.Values[2]))
}

func TestDivNaNRules(t *testing.T) {
	require.True(t, math.IsNaN(Div(0, 0)))
	require.True(t, math.IsNaN(Div(math.NaN(), 1)))
	require.True(t, math.IsInf(Div(1, 0), 1))
	require.True(t, math.IsInf(Div(-1, 0), -1))
}

func TestCmpOperatorsPropagateNaN(t *testing.T) {
	require.True(t, math.IsNaN(Gt(math.NaN(), 1)))
	require.Equal(t, 1.0, Gt(2, 1))
	require.Equal(t, 0.0, Gt(1, 2))
	require.Equal(t, 1.0, Eq(3, 3))
}

func TestCombineAlignsBothOperands(t *testing.T) {
	a, _ := New(0, 1000, []float64{1, 2, 3})
	b, _ := New(1000, 1000, []float64{10, 20, 30})

	out, err := Combine(a, b, 0, 3000, 1000, Add)
	require.NoError(t, err)
	require.True(t, math.IsNaN(out.Values[0]))
	require.Equal(t, float64(12), out.Values[1])
	require.Equal(t, float64(23), out.Values[2])
}

func TestConstMaterializesOverWindow(t *testing.T) {
	c, err := Const(5, 0, 3000, 1000)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 5, 5}, c.Values)
	require.Equal(t, int64(3000), c.End())
}
