// Package predictor implements the field-prediction engine used by the
// frame parser: each decoded residual is really a diff against some
// prediction of the field's value, and the predictor rule named in the
// field's definition says how to compute that prediction from the current
// frame's already-decoded fields and the field-history ring.
package predictor

import (
	"fmt"
	"math"

	"github.com/nicholassherlock/blackbox-log/errs"
)

// Predictor identifies one of the twelve prediction rules a field
// definition can name. Values match the decimal indices used in
// `Field <L> predictor` headers.
type Predictor uint8

const (
	Zero Predictor = iota
	Previous
	StraightLine
	Average2
	MinThrottle
	Motor0
	Increment
	HomeLat // unimplemented: always predicts 0
	FifteenHundred
	VBatReference
	LastMainFrameTime // unimplemented: always predicts 0
	MinMotor
)

func (p Predictor) String() string {
	switch p {
	case Zero:
		return "Zero"
	case Previous:
		return "Previous"
	case StraightLine:
		return "StraightLine"
	case Average2:
		return "Average2"
	case MinThrottle:
		return "MinThrottle"
	case Motor0:
		return "Motor0"
	case Increment:
		return "Increment"
	case HomeLat:
		return "HomeLat"
	case FifteenHundred:
		return "FifteenHundred"
	case VBatReference:
		return "VBatReference"
	case LastMainFrameTime:
		return "LastMainFrameTime"
	case MinMotor:
		return "MinMotor"
	default:
		return fmt.Sprintf("Predictor(%d)", uint8(p))
	}
}

// FromByte maps a decimal header value to a Predictor. ok is false if the
// value does not name a known rule.
func FromByte(b uint8) (Predictor, bool) {
	if b > uint8(MinMotor) {
		return 0, false
	}

	return Predictor(b), true
}

// Context supplies the header-derived constants and cross-field lookups a
// handful of predictor rules need.
type Context interface {
	MinThrottle() uint32
	VBatReference() uint32
	MinMotorOutput() uint32
	// Motor0 returns the already-decoded motor[0] field's value from the
	// current Main frame being assembled. Fails if the frame definition
	// has no motor[0] field, or if it has not been decoded yet (motor[0]
	// must precede any field using this predictor).
	Motor0(current []uint32) (uint32, error)
}

// Apply computes the predicted diff for predictor p and adds it to value,
// the just-decoded residual. signed selects whether value, the diff, and
// the history inputs are reinterpreted as two's-complement int32 for the
// addition (wrapping on overflow either way, matching the firmware
// encoder's own wraparound arithmetic).
func Apply(
	p Predictor,
	ctx Context,
	value uint32,
	signed bool,
	current []uint32,
	last uint32, hasLast bool,
	lastLast uint32, hasLastLast bool,
	skippedFrames uint32,
) (uint32, error) {
	var diff uint32

	switch p {
	case Zero:
		diff = 0

	case Previous:
		if hasLast {
			diff = last
		}

	case StraightLine:
		if signed {
			diff = asUnsigned(straightLineSigned(asSigned(last), hasLast, asSigned(lastLast), hasLastLast))
		} else {
			diff = straightLineUnsigned(last, hasLast, lastLast, hasLastLast)
		}

	case Average2:
		if signed {
			diff = asUnsigned(average2Signed(asSigned(last), hasLast, asSigned(lastLast), hasLastLast))
		} else {
			diff = average2Unsigned(last, hasLast, lastLast, hasLastLast)
		}

	case MinThrottle:
		diff = ctx.MinThrottle()

	case Motor0:
		m0, err := ctx.Motor0(current)
		if err != nil {
			return 0, err
		}

		diff = m0

	case Increment:
		if signed {
			diff = asUnsigned(1 + int32(skippedFrames) + asSigned(last))
		} else {
			diff = 1 + skippedFrames + last
		}

	case FifteenHundred:
		diff = 1500

	case VBatReference:
		diff = ctx.VBatReference()

	case MinMotor:
		diff = ctx.MinMotorOutput()

	case HomeLat, LastMainFrameTime:
		diff = 0

	default:
		return 0, errs.ErrCorrupted
	}

	if signed {
		return asUnsigned(asSigned(value) + asSigned(diff)), nil
	}

	return value + diff, nil
}

func asSigned(v uint32) int32 {
	return int32(v)
}

func asUnsigned(v int32) uint32 {
	return uint32(v)
}

func straightLineUnsigned(last uint32, hasLast bool, lastLast uint32, hasLastLast bool) uint32 {
	if !hasLast {
		return 0
	}

	if !hasLastLast {
		return last
	}

	sub := uint32(0)
	if last >= lastLast { // underflowing subtraction defaults to 0
		sub = last - lastLast
	}

	return sub + last
}

func straightLineSigned(last int32, hasLast bool, lastLast int32, hasLastLast bool) int32 {
	if !hasLast {
		return 0
	}

	if !hasLastLast {
		return last
	}

	diff64 := int64(last) - int64(lastLast)

	sub := int32(0)
	if diff64 >= math.MinInt32 && diff64 <= math.MaxInt32 { // overflowing subtraction defaults to 0
		sub = int32(diff64)
	}

	return sub + last
}

func average2Unsigned(last uint32, hasLast bool, lastLast uint32, hasLastLast bool) uint32 {
	if !hasLast {
		last = 0
	}

	if !hasLastLast {
		return last
	}

	return (last + lastLast) >> 1
}

func average2Signed(last int32, hasLast bool, lastLast int32, hasLastLast bool) int32 {
	if !hasLast {
		last = 0
	}

	if !hasLastLast {
		return last
	}

	return (last + lastLast) >> 1
}
