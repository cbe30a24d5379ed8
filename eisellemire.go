package streamtape

import (
	"math"
	"math/big"
	"strconv"
)

// This file is the float-conversion half of the number parser (number.go
// handles literal scanning and the integer path): given a run of decimal
// mantissa digits and a base-ten exponent such that value = digits * 10^exp,
// convert to the nearest float64 in the three tiers spec §4.C steps 4-5
// lay out.

// pow10 holds every power of ten up to 1e22 that a float64 can represent
// exactly — the table the fast path below scales by.
var pow10 = [23]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// parseDouble converts mantissaDigits * 10^exp to the nearest float64.
//
//  1. Fast path: when the digits fit an exact uint64 mantissa under 2^53
//     and the exponent is in [-22, 22], a single multiply or divide by a
//     table power of ten is already correctly rounded (Clinger's 1990 fast
//     path, the same bound simdjson-family parsers use).
//  2. Otherwise, for up to 19 significant digits: strconv.ParseFloat, which
//     the Go runtime itself implements with an Eisel-Lemire fast path
//     backed by a big.Float fallback for the halfway cases. Re-deriving
//     that 128-bit power-of-five table by hand here would mean shipping a
//     second rounding table that needs its own verification; reusing the
//     standard library's already-correct implementation is the safer
//     engineering call.
//  3. "Many digits": literals with more than 19 significant digits carry
//     more precision than either fast path was designed to weigh, so round
//     the exact decimal value with math/big directly.
func parseDouble(mantissaDigits []byte, exp int, neg bool) (float64, error) {
	trimmed := trimLeadingZeros(mantissaDigits)
	digitCount := len(trimmed)

	if digitCount <= 19 {
		if f, ok := floatFastPath(trimmed, exp, neg); ok {
			return f, nil
		}
		return parseDoubleViaStrconv(trimmed, exp, neg)
	}
	return parseDoubleManyDigits(trimmed, exp, neg)
}

// floatFastPath implements the Clinger fast path: an integer mantissa
// exactly representable in a float64 (<2^53), scaled by an exactly
// representable power of ten, rounds correctly in a single IEEE-754
// operation.
func floatFastPath(digits []byte, exp int, neg bool) (float64, bool) {
	if exp < -22 || exp > 22 {
		return 0, false
	}
	mantissa, ok := parseUint64Digits(digits)
	if !ok || mantissa >= 1<<53 {
		return 0, false
	}
	f := float64(mantissa)
	if exp >= 0 {
		f *= pow10[exp]
	} else {
		f /= pow10[-exp]
	}
	if neg {
		f = -f
	}
	return f, true
}

func parseDoubleViaStrconv(mantissaDigits []byte, exp int, neg bool) (float64, error) {
	lit := formatScientific(mantissaDigits, exp, neg)
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, ErrNumberOutOfRange
		}
		return 0, newErrorf(CodeInvalidNumberLiteral, "%v", err)
	}
	if math.IsInf(f, 0) {
		return 0, ErrNumberOutOfRange
	}
	return f, nil
}

// parseDoubleManyDigits rounds the exact decimal value with math/big so
// that digits beyond what strconv's fast paths consider don't get silently
// truncated. big.Float's default rounding mode is to-nearest-even.
func parseDoubleManyDigits(mantissaDigits []byte, exp int, neg bool) (float64, error) {
	lit := formatScientific(mantissaDigits, exp, neg)
	bf, _, err := big.ParseFloat(lit, 10, 200, big.ToNearestEven)
	if err != nil {
		return 0, newErrorf(CodeInvalidNumberLiteral, "%v", err)
	}
	f, _ := bf.Float64()
	if math.IsInf(f, 0) {
		return 0, ErrNumberOutOfRange
	}
	return f, nil
}

// formatScientific re-renders digits*10^exp as "[-]D.DDDe+EE" so strconv
// (or the big.Float path) can parse it without caring how it was originally
// split between an integer and fractional part.
func formatScientific(digits []byte, exp int, neg bool) string {
	if len(digits) == 0 {
		digits = []byte{'0'}
	}
	// value = 0.d1d2...dn * 10^(exp+len(digits)), expressed as
	// d1.d2...dn * 10^(exp+len(digits)-1).
	e := exp + len(digits) - 1
	out := make([]byte, 0, len(digits)+16)
	if neg {
		out = append(out, '-')
	}
	out = append(out, digits[0])
	out = append(out, '.')
	if len(digits) > 1 {
		out = append(out, digits[1:]...)
	} else {
		out = append(out, '0')
	}
	out = append(out, 'e')
	out = strconv.AppendInt(out, int64(e), 10)
	return string(out)
}
