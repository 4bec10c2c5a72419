package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	minThrottle    uint32
	vbatReference  uint32
	minMotorOutput uint32
	motor0         uint32
	motor0Err      error
}

func (f fakeContext) MinThrottle() uint32    { return f.minThrottle }
func (f fakeContext) VBatReference() uint32  { return f.vbatReference }
func (f fakeContext) MinMotorOutput() uint32 { return f.minMotorOutput }

func (f fakeContext) Motor0(_ []uint32) (uint32, error) {
	return f.motor0, f.motor0Err
}

func TestApplyZero(t *testing.T) {
	got, err := Apply(Zero, fakeContext{}, 42, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), got)
}

func TestApplyPrevious(t *testing.T) {
	got, err := Apply(Previous, fakeContext{}, 5, false, nil, 100, true, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(105), got)

	got, err = Apply(Previous, fakeContext{}, 5, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), got)
}

func TestApplyStraightLineUnsigned(t *testing.T) {
	// both present: (12-10)+12 = 14
	got, err := Apply(StraightLine, fakeContext{}, 0, false, nil, 12, true, 10, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(14), got)

	// only last: 10
	got, err = Apply(StraightLine, fakeContext{}, 0, false, nil, 10, true, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), got)

	// none: 0
	got, err = Apply(StraightLine, fakeContext{}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)

	// underflow defaults subtraction to 0: (10-12 underflows) -> 0 + 10 = 10
	got, err = Apply(StraightLine, fakeContext{}, 0, false, nil, 10, true, 12, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), got)
}

func TestApplyStraightLineSigned(t *testing.T) {
	got, err := Apply(StraightLine, fakeContext{}, 0, true, nil, uint32(int32(-2)), true, uint32(int32(10)), true, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-14), int32(got))
}

func TestApplyAverage2(t *testing.T) {
	got, err := Apply(Average2, fakeContext{}, 0, false, nil, 10, true, 12, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(11), got)

	got, err = Apply(Average2, fakeContext{}, 0, false, nil, 10, true, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), got)
}

func TestApplyMinThrottle(t *testing.T) {
	got, err := Apply(MinThrottle, fakeContext{minThrottle: 1100}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1100), got)
}

func TestApplyMotor0(t *testing.T) {
	got, err := Apply(Motor0, fakeContext{motor0: 1200}, 5, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1205), got)

	_, err = Apply(Motor0, fakeContext{motor0Err: errors.New("no motor field")}, 5, false, nil, 0, false, 0, false, 0)
	assert.Error(t, err)
}

func TestApplyIncrement(t *testing.T) {
	got, err := Apply(Increment, fakeContext{}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got)

	got, err = Apply(Increment, fakeContext{}, 0, false, nil, 5, true, 0, false, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), got) // 1 + 2 + 5
}

func TestApplyFifteenHundred(t *testing.T) {
	got, err := Apply(FifteenHundred, fakeContext{}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1500), got)
}

func TestApplyVBatReference(t *testing.T) {
	got, err := Apply(VBatReference, fakeContext{vbatReference: 420}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(420), got)
}

func TestApplyMinMotor(t *testing.T) {
	got, err := Apply(MinMotor, fakeContext{minMotorOutput: 1070}, 0, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1070), got)
}

func TestApplyUnimplementedPredictorsReturnZeroDiff(t *testing.T) {
	got, err := Apply(HomeLat, fakeContext{}, 7, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got)

	got, err = Apply(LastMainFrameTime, fakeContext{}, 7, false, nil, 0, false, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got)
}

func TestFromByte(t *testing.T) {
	p, ok := FromByte(11)
	require.True(t, ok)
	assert.Equal(t, MinMotor, p)

	_, ok = FromByte(12)
	assert.False(t, ok)
}

func TestApplySignedWraps(t *testing.T) {
	got, err := Apply(Previous, fakeContext{}, uint32(int32(math.MaxInt32)), true, nil, 1, true, 0, false, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), int32(got))
}
