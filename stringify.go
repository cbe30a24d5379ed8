package streamtape

import (
	"math"
	"strconv"
)

// Stringify renders a Tape's single document back to compact JSON: no
// insignificant whitespace, shortest round-trip float formatting, per spec
// §6 and SPEC_FULL.md §2/§4. Grounded on the teacher's
// Iter.MarshalJSONBuffer/appendFloat/escapeBytes in parsed_json.go, adapted
// to this package's Iter/Object/Array types.
//
// Unlike the teacher, which walks a flat Iter through a hand-rolled
// container-stack state machine (needed there because its Iter has no
// notion of a bounded sub-scope), this tape's Object/Array already bound
// their own scope via Iter.limit, so the natural Go shape is a small
// recursive walk instead of an explicit stack.
func Stringify(tape *Tape) ([]byte, error) {
	_, it, err := tape.Root()
	if err != nil {
		return nil, err
	}
	return marshalValue(nil, it)
}

// MarshalJSON renders the value the Iter is currently queued on.
func (i *Iter) MarshalJSON() ([]byte, error) { return i.MarshalJSONBuffer(nil) }

// MarshalJSONBuffer is MarshalJSON appending to dst, for fewer allocations
// across repeated calls.
func (i *Iter) MarshalJSONBuffer(dst []byte) ([]byte, error) { return marshalValue(dst, i) }

// MarshalJSON renders the object's remaining (unconsumed) elements.
func (o *Object) MarshalJSON() ([]byte, error) { return o.MarshalJSONBuffer(nil) }

// MarshalJSONBuffer renders the object's remaining elements, appending to
// dst. The Object is consumed.
func (o *Object) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	var key Iter
	first := true
	for {
		name, t, err := o.NextElementBytes(&key)
		if err != nil {
			return nil, err
		}
		if t == TypeNone {
			break
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = append(dst, '"')
		dst = escapeBytes(dst, name)
		dst = append(dst, '"', ':')
		dst, err = marshalValue(dst, &key)
		if err != nil {
			return nil, err
		}
	}
	dst = append(dst, '}')
	return dst, nil
}

// MarshalJSON renders the array's remaining (unconsumed) elements.
func (a *Array) MarshalJSON() ([]byte, error) { return a.MarshalJSONBuffer(nil) }

// MarshalJSONBuffer renders the array's remaining elements, appending to
// dst.
func (a *Array) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	dst = append(dst, '[')
	it := a.Iter()
	first := true
	for it.Advance() != TypeNone {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		var err error
		dst, err = marshalValue(dst, &it)
		if err != nil {
			return nil, err
		}
	}
	dst = append(dst, ']')
	return dst, nil
}

// MarshalJSON renders every element of e in original tape order, keyed by
// name, regardless of the order Elements.Index would enumerate them in.
func (e Elements) MarshalJSON() ([]byte, error) { return e.MarshalJSONBuffer(nil) }

// MarshalJSONBuffer is MarshalJSON appending to dst.
func (e Elements) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	for idx, elem := range e.Elements {
		dst = append(dst, '"')
		dst = escapeBytes(dst, []byte(elem.Name))
		dst = append(dst, '"', ':')
		it := elem.Iter
		var err error
		dst, err = marshalValue(dst, &it)
		if err != nil {
			return nil, err
		}
		if idx < len(e.Elements)-1 {
			dst = append(dst, ',')
		}
	}
	dst = append(dst, '}')
	return dst, nil
}

// marshalValue appends the JSON text of the value it is currently queued
// on, descending into objects/arrays as needed.
func marshalValue(dst []byte, it *Iter) ([]byte, error) {
	switch it.t {
	case TagNull:
		dst = append(dst, "null"...)
	case TagBoolTrue:
		dst = append(dst, "true"...)
	case TagBoolFalse:
		dst = append(dst, "false"...)
	case TagInteger:
		v, err := it.Int()
		if err != nil {
			return nil, err
		}
		dst = strconv.AppendInt(dst, v, 10)
	case TagUint:
		v, err := it.Uint()
		if err != nil {
			return nil, err
		}
		dst = strconv.AppendUint(dst, v, 10)
	case TagFloat:
		v, err := it.Float()
		if err != nil {
			return nil, err
		}
		var err2 error
		dst, err2 = appendFloat(dst, v)
		if err2 != nil {
			return nil, err2
		}
	case TagString:
		b, err := it.StringBytes()
		if err != nil {
			return nil, err
		}
		dst = append(dst, '"')
		dst = escapeBytes(dst, b)
		dst = append(dst, '"')
	case TagObjectStart:
		obj, err := it.Object(nil)
		if err != nil {
			return nil, err
		}
		return obj.MarshalJSONBuffer(dst)
	case TagArrayStart:
		arr, err := it.Array(nil)
		if err != nil {
			return nil, err
		}
		return arr.MarshalJSONBuffer(dst)
	default:
		return nil, newErrorf(CodeIncorrectType, "no value queued to marshal (tag %v)", it.t)
	}
	return dst, nil
}

func formatInt(v int64) string   { return strconv.FormatInt(v, 10) }
func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

func formatFloat(f float64) (string, error) {
	var tmp [32]byte
	v, err := appendFloat(tmp[:0], f)
	return string(v), err
}

// appendFloat renders f the way the teacher's appendFloat does: ES6-style
// number-to-string conversion (shortest round-trip representation, 'e'
// notation only outside [1e-6, 1e21)), with the exponent's leading zero
// stripped so "1e-09" reads as "1e-9" the way JS/most JSON emitters write it.
func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, newError(CodeNumberOutOfRange, "cannot stringify Inf or NaN")
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}

// escapeBytes appends src to dst with JSON string escaping applied.
func escapeBytes(dst, src []byte) []byte {
	for _, c := range src {
		switch c {
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '"':
			dst = append(dst, '\\', '"')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\\':
			dst = append(dst, '\\', '\\')
		default:
			if c <= 0x1f {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				dst = append(dst, c)
			}
		}
	}
	return dst
}

var hexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
