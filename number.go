package streamtape

import "math"

// NumberHint lets a caller steer how an integer literal without a decimal
// point or exponent is classified when it would fit more than one tape
// tag. The tape builder itself always parses with HintAny; HintUnsigned
// exists for higher-level callers (e.g. a schema validator) that know a
// field must not be negative and want an explicit rejection instead of a
// silently-accepted signed value — spec §4.C's "optional caller hint".
type NumberHint uint8

const (
	HintAny NumberHint = iota
	HintUnsigned
)

// numberKind is the tape tag a parsed literal resolved to.
type numberKind uint8

const (
	numUnsigned numberKind = iota
	numSigned
	numDouble
)

// numberResult is the outcome of parseNumber: exactly one of u/i/d is
// meaningful, selected by kind.
type numberResult struct {
	kind numberKind
	u    uint64
	i    int64
	d    float64
	// length is the number of bytes of buf the literal consumed.
	length int
}

// parseNumber implements spec §4.C: buf starts at the first byte of a
// number literal (a leading '-' or a digit). It scans the full literal in
// one pass, classifies it as an integer (unsigned/signed) or floating point
// value, and converts it to the nearest representable value.
func parseNumber(buf []byte, hint NumberHint) (numberResult, error) {
	neg := false
	i := 0
	if i < len(buf) && buf[i] == '-' {
		neg = true
		i++
	}
	if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
		return numberResult{}, newError(CodeInvalidNumberLiteral, "missing digits")
	}

	intStart := i
	if buf[i] == '0' {
		i++ // a leading zero may only be followed by '.', 'e'/'E', or a terminator
		if i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			return numberResult{}, newError(CodeInvalidNumberLiteral, "leading zero")
		}
	} else {
		i = scanDigits(buf, i)
	}
	intEnd := i

	isFloat := false
	fracStart, fracEnd := 0, 0
	if i < len(buf) && buf[i] == '.' {
		isFloat = true
		i++
		fracStart = i
		i = scanDigits(buf, i)
		fracEnd = i
		if fracEnd == fracStart {
			return numberResult{}, newError(CodeInvalidNumberLiteral, "missing digits after decimal point")
		}
	}

	expSign := 1
	expStart, expEnd := 0, 0
	if i < len(buf) && (buf[i] == 'e' || buf[i] == 'E') {
		isFloat = true
		i++
		if i < len(buf) && (buf[i] == '+' || buf[i] == '-') {
			if buf[i] == '-' {
				expSign = -1
			}
			i++
		}
		expStart = i
		i = scanDigits(buf, i)
		expEnd = i
		if expEnd == expStart {
			return numberResult{}, newError(CodeInvalidNumberLiteral, "missing digits in exponent")
		}
	}

	if !isFloat {
		res, err := parseIntegerLiteral(buf[intStart:intEnd], neg, hint)
		if err != nil {
			return numberResult{}, err
		}
		res.length = i
		return res, nil
	}

	exp := 0
	for _, c := range buf[expStart:expEnd] {
		exp = exp*10 + int(c-'0')
		if exp > 1_000_000 {
			break // definitely out of double range; avoid overflow below
		}
	}
	exp *= expSign
	// Every fractional digit shifts the implied decimal point left by one.
	exp -= fracEnd - fracStart

	mantissaDigits := append(append([]byte{}, buf[intStart:intEnd]...), buf[fracStart:fracEnd]...)
	d, err := parseDouble(mantissaDigits, exp, neg)
	if err != nil {
		return numberResult{}, err
	}
	return numberResult{kind: numDouble, d: d, length: i}, nil
}

func scanDigits(buf []byte, i int) int {
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	return i
}

// parseIntegerLiteral handles the no-'.'/'e' case: spec §4.C step 2.
func parseIntegerLiteral(digits []byte, neg bool, hint NumberHint) (numberResult, error) {
	if len(digits) > 20 {
		return numberResult{}, ErrNumberOutOfRange
	}
	var v uint64
	for _, c := range digits {
		d := uint64(c - '0')
		if v > (math.MaxUint64-d)/10 {
			return numberResult{}, ErrNumberOutOfRange
		}
		v = v*10 + d
	}
	if neg {
		if hint == HintUnsigned {
			return numberResult{}, newError(CodeInvalidNumberLiteral, "negative literal rejected by unsigned hint")
		}
		if v > 1<<63 {
			return numberResult{}, ErrNumberOutOfRange
		}
		return numberResult{kind: numSigned, i: -int64(v)}, nil
	}
	return numberResult{kind: numUnsigned, u: v}, nil
}

func trimLeadingZeros(digits []byte) []byte {
	n := 0
	for n < len(digits) && digits[n] == '0' {
		n++
	}
	return digits[n:]
}

func parseUint64Digits(digits []byte) (uint64, bool) {
	if len(digits) == 0 {
		return 0, true
	}
	var v uint64
	for _, c := range digits {
		d := uint64(c - '0')
		if v > (math.MaxUint64-d)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}
