package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumericSentinels(t *testing.T) {
	for _, value := range []string{"MISSING", "ILLEGIBLE", "NULL", "null", "Null", "", "   ", "\t"} {
		v := NormalizeNumeric(value)
		assert.True(t, v.IsNil(), "expected %q to normalize to nothing", value)
	}
}

func TestNormalizeNumericCaseSensitiveSentinels(t *testing.T) {
	// Only the exact transcription convention spellings are sentinels.
	v := NormalizeNumeric("missing")
	assert.Equal(t, "missing", v.Raw)

	v = NormalizeNumeric("Illegible")
	assert.Equal(t, "Illegible", v.Raw)
}

func TestNormalizeNumericIntegers(t *testing.T) {
	v := NormalizeNumeric("42")
	require.NotNil(t, v.Int)
	assert.Equal(t, 42, *v.Int)
	assert.Nil(t, v.Float)

	v = NormalizeNumeric("-7")
	require.NotNil(t, v.Int)
	assert.Equal(t, -7, *v.Int)

	v = NormalizeNumeric("  300  ")
	require.NotNil(t, v.Int)
	assert.Equal(t, 300, *v.Int)
}

func TestNormalizeNumericFloats(t *testing.T) {
	v := NormalizeNumeric("1250.50")
	require.NotNil(t, v.Float)
	assert.InDelta(t, 1250.50, *v.Float, 0.001)
	assert.Nil(t, v.Int)
}

func TestNormalizeNumericGarbagePreserved(t *testing.T) {
	for _, value := range []string{"abt 1200", "$500", "12,000", "unknown"} {
		v := NormalizeNumeric(value)
		assert.Equal(t, value, v.Raw, "garbage must come back verbatim")
		assert.Nil(t, v.Int)
		assert.Nil(t, v.Float)
	}
}

func TestValueAsInt(t *testing.T) {
	v := NormalizeNumeric("12")
	require.NotNil(t, v.AsInt())
	assert.Equal(t, 12, *v.AsInt())

	// A whole-number float converts; a true fraction does not.
	v = NormalizeNumeric("12.0")
	require.NotNil(t, v.AsInt())
	assert.Equal(t, 12, *v.AsInt())

	v = NormalizeNumeric("12.5")
	assert.Nil(t, v.AsInt())
}

func TestValueAsFloat(t *testing.T) {
	v := NormalizeNumeric("12")
	require.NotNil(t, v.AsFloat())
	assert.InDelta(t, 12.0, *v.AsFloat(), 0.001)

	v = NormalizeNumeric("garbage")
	assert.Nil(t, v.AsFloat())
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "First Baptist Church", NormalizeText("  First Baptist Church "))
	assert.Equal(t, "", NormalizeText("MISSING"))
	assert.Equal(t, "", NormalizeText("ILLEGIBLE"))
	assert.Equal(t, "", NormalizeText("null"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestNormalizeBool(t *testing.T) {
	yes := NormalizeBool("Yes")
	require.NotNil(t, yes)
	assert.True(t, *yes)

	no := NormalizeBool("no")
	require.NotNil(t, no)
	assert.False(t, *no)

	assert.NotNil(t, NormalizeBool("YES"))
	assert.NotNil(t, NormalizeBool(" No "))
}

func TestNormalizeBoolNeverFalseFromSentinel(t *testing.T) {
	// An unanswered or illegible question is unknown, never a recorded "no".
	for _, value := range []string{"MISSING", "ILLEGIBLE", "NULL", "", "  ", "maybe", "1", "true"} {
		assert.Nil(t, NormalizeBool(value), "expected %q to normalize to nil", value)
	}
}
