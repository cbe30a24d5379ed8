package streamtape

// Array is a JSON array view into a Tape, grounded on the teacher's Array in
// parsed_array.go. Iter/MarshalJSONBuffer/Interface walk mixed-type arrays
// element by element; the AsXxx helpers give a fast path for arrays that are
// known to hold a single scalar type throughout.
type Array struct {
	tape *Tape
	off  int
	// limit is one past the array's TagArrayEnd word - see Iter.Array.
	limit int
}

// Iter returns the array's contents as an Iter, ready for a first Advance.
func (a *Array) Iter() Iter {
	return Iter{tape: a.tape, off: a.off, limit: a.limit}
}

// FirstType returns the type of the array's first element, or TypeNone if
// the array is empty.
func (a *Array) FirstType() Type {
	it := a.Iter()
	return it.PeekNext()
}

// Interface returns the array as a []interface{}, converting every element
// via Iter.Interface.
func (a *Array) Interface() ([]interface{}, error) {
	dst := make([]interface{}, 0, a.lenEstimate())
	it := a.Iter()
	for it.Advance() != TypeNone {
		v, err := it.Interface()
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// AsFloat returns every element converted to float64. Integers convert
// automatically; any other element type is an error.
func (a *Array) AsFloat() ([]float64, error) {
	dst := make([]float64, 0, a.lenEstimate())
	it := a.Iter()
	for {
		t := it.Advance()
		if t == TypeNone {
			return dst, nil
		}
		v, err := it.Float()
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
}

// AsInteger returns every element converted to int64. Unsigned integers and
// in-range floats convert automatically.
func (a *Array) AsInteger() ([]int64, error) {
	dst := make([]int64, 0, a.lenEstimate())
	it := a.Iter()
	for {
		t := it.Advance()
		if t == TypeNone {
			return dst, nil
		}
		v, err := it.Int()
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
}

// AsUint64 returns every element converted to uint64. Non-negative signed
// integers and in-range floats convert automatically.
func (a *Array) AsUint64() ([]uint64, error) {
	dst := make([]uint64, 0, a.lenEstimate())
	it := a.Iter()
	for {
		t := it.Advance()
		if t == TypeNone {
			return dst, nil
		}
		v, err := it.Uint()
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
}

// AsString returns every element's string value. Non-string elements are an
// error; use AsStringCvt to also stringify scalars.
func (a *Array) AsString() ([]string, error) {
	dst := make([]string, 0, a.lenEstimate())
	it := a.Iter()
	for {
		t := it.Advance()
		if t == TypeNone {
			return dst, nil
		}
		if t != TypeString {
			return nil, newErrorf(CodeIncorrectType, "element in array is not a string, but %v", t)
		}
		s, err := it.String()
		if err != nil {
			return nil, err
		}
		dst = append(dst, s)
	}
}

// AsStringCvt returns every scalar element stringified; objects and arrays
// are an error.
func (a *Array) AsStringCvt() ([]string, error) {
	dst := make([]string, 0, a.lenEstimate())
	it := a.Iter()
	for {
		t := it.Advance()
		if t == TypeNone {
			return dst, nil
		}
		s, err := stringifyScalar(&it)
		if err != nil {
			return nil, err
		}
		dst = append(dst, s)
	}
}

func (a *Array) lenEstimate() int {
	n := a.limit - a.off - 1
	if n < 0 {
		return 0
	}
	return n
}

// stringifyScalar renders the iterator's currently-queued scalar value as a
// string; used by AsStringCvt and Iter.StringCvt.
func stringifyScalar(i *Iter) (string, error) {
	switch i.t {
	case TagString:
		return i.String()
	case TagInteger:
		v, err := i.Int()
		if err != nil {
			return "", err
		}
		return formatInt(v), nil
	case TagUint:
		v, err := i.Uint()
		if err != nil {
			return "", err
		}
		return formatUint(v), nil
	case TagFloat:
		v, err := i.Float()
		if err != nil {
			return "", err
		}
		return formatFloat(v)
	case TagBoolTrue:
		return "true", nil
	case TagBoolFalse:
		return "false", nil
	case TagNull:
		return "null", nil
	default:
		return "", newErrorf(CodeIncorrectType, "cannot convert type %v to string", i.t.Type())
	}
}

// StringCvt returns the last-queued value stringified; scalars convert,
// objects/arrays/root are an error.
func (i *Iter) StringCvt() (string, error) { return stringifyScalar(i) }
