package framedef

import (
	"testing"

	"github.com/nicholassherlock/blackbox-log/encoding"
	"github.com/nicholassherlock/blackbox-log/predictor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIntra(t *testing.T) *Definition {
	t.Helper()

	b := NewBuilder(Intra)
	b.SetNames("loopIteration,time,motor[0]")
	b.SetSigned("0,1,0")
	require.NoError(t, b.SetPredictors("6,2,5"))
	require.NoError(t, b.SetEncodings("1,0,1"))

	def, err := b.Build(nil)
	require.NoError(t, err)

	return def
}

func TestBuildIntraValidatesFixedHead(t *testing.T) {
	def := buildIntra(t)
	require.Len(t, def.Fields, 3)
	assert.Equal(t, "loopIteration", def.Fields[0].Name)
	assert.Equal(t, predictor.Increment, def.Fields[0].Predictor)
	assert.Equal(t, encoding.Variable, def.Fields[0].Encoding)
	assert.False(t, def.Fields[0].Signed)

	assert.Equal(t, "time", def.Fields[1].Name)
	assert.Equal(t, predictor.StraightLine, def.Fields[1].Predictor)
	assert.Equal(t, encoding.VariableSigned, def.Fields[1].Encoding)
	assert.True(t, def.Fields[1].Signed)
}

func TestBuildIntraRejectsWrongFixedHead(t *testing.T) {
	b := NewBuilder(Intra)
	b.SetNames("iteration,time")
	b.SetSigned("0,1")
	require.NoError(t, b.SetPredictors("6,2"))
	require.NoError(t, b.SetEncodings("1,0"))

	_, err := b.Build(nil)
	assert.Error(t, err)
}

func TestBuildInterInheritsFromIntra(t *testing.T) {
	intra := buildIntra(t)

	b := NewBuilder(Inter)
	require.NoError(t, b.SetPredictors("2,2,11"))
	require.NoError(t, b.SetEncodings("0,0,0"))

	def, err := b.Build(intra)
	require.NoError(t, err)
	assert.Equal(t, []string{"loopIteration", "time", "motor[0]"}, namesOf(def))
	assert.Equal(t, []bool{false, true, false}, signsOf(def))
}

func TestBuildInterRejectsMismatchedNames(t *testing.T) {
	intra := buildIntra(t)

	b := NewBuilder(Inter)
	b.SetNames("loopIteration,time,motor[1]")
	b.SetSigned("0,1,0")
	require.NoError(t, b.SetPredictors("2,2,11"))
	require.NoError(t, b.SetEncodings("0,0,0"))

	_, err := b.Build(intra)
	assert.Error(t, err)
}

func TestBuildRejectsMismatchedLengths(t *testing.T) {
	b := NewBuilder(Slow)
	b.SetNames("flightModeFlags")
	b.SetSigned("0,0")
	require.NoError(t, b.SetPredictors("0"))
	require.NoError(t, b.SetEncodings("1"))

	_, err := b.Build(nil)
	assert.Error(t, err)
}

func TestBuildRejectsMissingList(t *testing.T) {
	b := NewBuilder(Slow)
	b.SetNames("flightModeFlags")

	_, err := b.Build(nil)
	assert.Error(t, err)
}

func TestBuildRejectsInvalidPredictorIndex(t *testing.T) {
	b := NewBuilder(Slow)
	err := b.SetPredictors("99")
	assert.Error(t, err)
}

func TestBuildRejectsInvalidEncodingIndex(t *testing.T) {
	b := NewBuilder(Slow)
	err := b.SetEncodings("250")
	assert.Error(t, err)
}

func TestDefinitionIndexOf(t *testing.T) {
	def := buildIntra(t)
	assert.Equal(t, 2, def.IndexOf("motor[0]"))
	assert.Equal(t, -1, def.IndexOf("missing"))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind('G')
	require.True(t, ok)
	assert.Equal(t, Gps, k)

	_, ok = ParseKind('X')
	assert.False(t, ok)
}
