package streamtape

import "math"

// Iter walks a Tape one value at a time. A zero Iter is not usable; obtain
// one from Tape.Root, Iter.AdvanceIter, Object.NextElement or Array.Iter.
//
// Grounded on the teacher's Iter in parsed_json.go: Advance/AdvanceInto queue
// up the next tape word the same way, and calcNext's "into vs. skip" split
// is unchanged. What differs is the tape encoding itself (see DESIGN.md):
// this tape's container words carry the index of their own matching close
// word directly, so a skip distance is computed from that pointer instead of
// the teacher's "next tape location" payload convention, and Iter bounds a
// sub-scope with an explicit limit field instead of reslicing a shared
// []uint64, so that descending into one part of a Tape can never truncate
// another live Iter's view of it.
type Iter struct {
	tape *Tape
	// off is the index of the next word to read; limit is the exclusive
	// bound of this Iter's scope (Object/Array/Root restrict it below the
	// full tape when descending into a container).
	off, limit int
	// addNext is how far Advance should move off before reading the next
	// word - 1 for a scalar already queued, or the distance to skip an
	// entire container once into is false.
	addNext int

	cur uint64 // queued value's payload, tag bits stripped
	t   Tag    // queued value's tag
}

// Root returns an Iter positioned on a Tape's single top-level value,
// skipping the TagRoot wrapper tapeBuilder always writes first and last.
// Unlike the teacher's Root (called repeatedly to step through an NDJSON
// tape's several root-wrapped documents), a Tape here always holds exactly
// one document, so this is a Tape method called once rather than an Iter
// method the caller loops on.
func (t *Tape) Root() (Type, *Iter, error) {
	if len(t.Words) == 0 {
		return TypeNone, nil, ErrEmpty
	}
	w := t.Words[0]
	if Tag(w>>tapeTagShift) != TagRoot {
		return TypeNone, nil, newError(CodeIncorrectType, "tape does not begin with a root word")
	}
	ptr := int((w & tapeValueMask) >> containerPtrShift)
	it := &Iter{tape: t, off: 1, limit: ptr}
	return it.Advance(), it, nil
}

// calcNext populates addNext for the next Advance call: numbers and strings
// occupy the tag word plus one value word, true/false/null only the tag
// word; containers either skip straight
// to one past their matching close word (into=false) or leave addNext at 0
// so the very next read lands on the container's first child (into=true).
func (i *Iter) calcNext(into bool) {
	i.addNext = 0
	switch i.t {
	case TagInteger, TagUint, TagFloat, TagString:
		i.addNext = 1
	case TagObjectStart, TagArrayStart:
		if !into {
			ptr := int(i.cur >> containerPtrShift)
			i.addNext = ptr + 1 - i.off
		}
	}
}

// Advance queues the next sibling value, skipping over any container
// entirely rather than descending into it. Returns TypeNone once the Iter's
// scope is exhausted.
func (i *Iter) Advance() Type {
	i.off += i.addNext
	if i.off >= i.limit {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone
	}
	w := i.tape.Words[i.off]
	i.cur = w & tapeValueMask
	i.t = Tag(w >> tapeTagShift)
	i.off++
	i.calcNext(false)
	return i.t.Type()
}

// AdvanceInto queues the next value without skipping a container's contents
// - used to step inside an object or array rather than over it.
func (i *Iter) AdvanceInto() Tag {
	i.off += i.addNext
	if i.off >= i.limit {
		i.addNext = 0
		i.t = TagEnd
		return TagEnd
	}
	w := i.tape.Words[i.off]
	i.cur = w & tapeValueMask
	i.t = Tag(w >> tapeTagShift)
	i.off++
	i.calcNext(true)
	return i.t
}

// Type returns the type queued by the last Advance/AdvanceInto call.
func (i *Iter) Type() Type { return i.t.Type() }

// PeekNextTag reports the tag of the word Advance would read next, without
// consuming it. Returns TagEnd once the scope is exhausted.
func (i *Iter) PeekNextTag() Tag {
	next := i.off + i.addNext
	if next >= i.limit {
		return TagEnd
	}
	return Tag(i.tape.Words[next] >> tapeTagShift)
}

// PeekNext is PeekNextTag's type, for callers that don't need the raw tag.
func (i *Iter) PeekNext() Type { return i.PeekNextTag().Type() }

// AdvanceIter queues the next value and narrows dst to exactly that value's
// scope: for a container, dst.Advance()/dst.Object()/dst.Array() then see
// only that container's contents; for a scalar, dst is ready for
// String()/Int()/Float()/Bool(). Passing dst == i re-targets i itself onto
// the value just read, the same "descend in place" shorthand the teacher's
// AdvanceIter supports.
func (i *Iter) AdvanceIter(dst *Iter) (Type, error) {
	i.off += i.addNext
	if i.off >= i.limit {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone, nil
	}
	w := i.tape.Words[i.off]
	i.cur = w & tapeValueMask
	i.t = Tag(w >> tapeTagShift)
	i.off++
	// i stays positioned at this value's content-start (off unchanged from
	// here on); calcNext(false) only arranges for i's own *next* Advance
	// call to skip over it, the same deferred-skip convention Advance uses.
	i.calcNext(false)
	typ := i.t.Type()

	end := i.off + i.addNext
	if end > i.limit {
		return TypeNone, newError(CodeIndexOutOfBounds, "element extends beyond tape")
	}

	if dst != i {
		*dst = *i
	}
	// dst.off stays at content-start too; calcNext(true) arms dst to
	// descend into it instead of skip past it, and limit bounds dst to
	// exactly this value - if dst == i, i itself becomes "entered".
	dst.limit = end
	dst.calcNext(true)
	return typ, nil
}

// Object returns the last-queued value as an Object. The Iter must have just
// read a TagObjectStart (via Advance/AdvanceInto/AdvanceIter).
func (i *Iter) Object(dst *Object) (*Object, error) {
	if i.t != TagObjectStart {
		return nil, newError(CodeIncorrectType, "next item is not an object")
	}
	if dst == nil {
		dst = &Object{}
	}
	dst.tape = i.tape
	dst.off = i.off
	dst.limit = int(i.cur>>containerPtrShift) + 1
	return dst, nil
}

// Array returns the last-queued value as an Array. The Iter must have just
// read a TagArrayStart.
func (i *Iter) Array(dst *Array) (*Array, error) {
	if i.t != TagArrayStart {
		return nil, newError(CodeIncorrectType, "next item is not an array")
	}
	if dst == nil {
		dst = &Array{}
	}
	dst.tape = i.tape
	dst.off = i.off
	dst.limit = int(i.cur>>containerPtrShift) + 1
	return dst, nil
}

// String returns the last-queued string value, decoding escapes on demand.
func (i *Iter) String() (string, error) {
	b, err := i.StringBytes()
	return string(b), err
}

// StringBytes returns the last-queued string value's raw bytes.
func (i *Iter) StringBytes() ([]byte, error) {
	if i.t != TagString {
		return nil, newError(CodeIncorrectType, "value is not a string")
	}
	if i.off >= i.limit {
		return nil, newError(CodeIndexOutOfBounds, "corrupt tape: no string length word")
	}
	ref := decodeStringRef(i.cur, i.tape.Words[i.off])
	return i.tape.bytesAt(ref)
}

// Int returns the last-queued value as an int64. Floats and unsigned
// integers within range are converted.
func (i *Iter) Int() (int64, error) {
	switch i.t {
	case TagInteger:
		return int64(i.tape.Words[i.off]), nil
	case TagUint:
		v := i.tape.Words[i.off]
		if v > math.MaxInt64 {
			return 0, newError(CodeNumberOutOfRange, "unsigned value overflows int64")
		}
		return int64(v), nil
	case TagFloat:
		v := math.Float64frombits(i.tape.Words[i.off])
		if v > math.MaxInt64 || v < math.MinInt64 {
			return 0, newError(CodeNumberOutOfRange, "float value out of int64 range")
		}
		return int64(v), nil
	default:
		return 0, newError(CodeIncorrectType, "value is not numeric")
	}
}

// Uint returns the last-queued value as a uint64. Non-negative signed
// integers and floats within range are converted.
func (i *Iter) Uint() (uint64, error) {
	switch i.t {
	case TagUint:
		return i.tape.Words[i.off], nil
	case TagInteger:
		v := int64(i.tape.Words[i.off])
		if v < 0 {
			return 0, newError(CodeNumberOutOfRange, "negative value cannot convert to uint64")
		}
		return uint64(v), nil
	case TagFloat:
		v := math.Float64frombits(i.tape.Words[i.off])
		if v < 0 || v > math.MaxUint64 {
			return 0, newError(CodeNumberOutOfRange, "float value out of uint64 range")
		}
		return uint64(v), nil
	default:
		return 0, newError(CodeIncorrectType, "value is not numeric")
	}
}

// Float returns the last-queued value as a float64. Integers are converted.
func (i *Iter) Float() (float64, error) {
	switch i.t {
	case TagFloat:
		return math.Float64frombits(i.tape.Words[i.off]), nil
	case TagInteger:
		return float64(int64(i.tape.Words[i.off])), nil
	case TagUint:
		return float64(i.tape.Words[i.off]), nil
	default:
		return 0, newError(CodeIncorrectType, "value is not numeric")
	}
}

// Bool returns the last-queued boolean value.
func (i *Iter) Bool() (bool, error) {
	switch i.t {
	case TagBoolTrue:
		return true, nil
	case TagBoolFalse:
		return false, nil
	default:
		return false, newError(CodeIncorrectType, "value is not a bool")
	}
}

// Interface returns the last-queued value converted to a plain Go value:
// map[string]interface{} for objects, []interface{} for arrays, and the
// natural Go type for scalars. Mirrors the teacher's Iter.Interface.
func (i *Iter) Interface() (interface{}, error) {
	switch i.t {
	case TagNull:
		return nil, nil
	case TagBoolTrue:
		return true, nil
	case TagBoolFalse:
		return false, nil
	case TagInteger:
		return i.Int()
	case TagUint:
		return i.Uint()
	case TagFloat:
		return i.Float()
	case TagString:
		return i.String()
	case TagObjectStart:
		obj, err := i.Object(nil)
		if err != nil {
			return nil, err
		}
		return obj.Map(nil)
	case TagArrayStart:
		arr, err := i.Array(nil)
		if err != nil {
			return nil, err
		}
		return arr.Interface()
	default:
		return nil, newError(CodeIncorrectType, "no value queued")
	}
}
