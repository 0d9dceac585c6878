package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyProgram(t *testing.T) {
	prog, err := Parse("")
	require.NoError(t, err)
	require.Empty(t, prog)
}

func TestParseClassifiesTokenKinds(t *testing.T) {
	prog, err := Parse("requests,name,:eq,:sum")
	require.NoError(t, err)
	require.Len(t, prog, 4)
	require.Equal(t, TokString, prog[0].Kind)
	require.Equal(t, "requests", prog[0].Str)
	require.Equal(t, TokString, prog[1].Kind)
	require.Equal(t, TokOperator, prog[2].Kind)
	require.Equal(t, "eq", prog[2].Str)
	require.Equal(t, TokOperator, prog[3].Kind)
	require.Equal(t, "sum", prog[3].Str)
}

func TestParseNumericToken(t *testing.T) {
	prog, err := Parse("50e3,:const")
	require.NoError(t, err)
	require.Equal(t, TokNumber, prog[0].Kind)
	require.Equal(t, 50000.0, prog[0].Num)
}

func TestParseWordList(t *testing.T) {
	prog, err := Parse("(,region,az,),:by")
	require.NoError(t, err)
	require.Equal(t, TokWordList, prog[0].Kind)
	require.Equal(t, []string{"region", "az"}, prog[0].Words)
	require.Equal(t, TokOperator, prog[1].Kind)
}

func TestParseUnbalancedParenIsParseError(t *testing.T) {
	_, err := Parse("(,region")
	require.Error(t, err)
}

func TestParseEmptyOperatorIsParseError(t *testing.T) {
	_, err := Parse(":")
	require.Error(t, err)
}
