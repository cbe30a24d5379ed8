package streamtape

import "github.com/tidwall/btree"

// Object is a JSON object view into a Tape, grounded on the teacher's
// Object in parsed_object.go. NextElementBytes walks the object's own
// key/value pairs one at a time without allocating; FindKey/FindPath give
// direct path-based lookup, the "lazy value access by path" SPEC_FULL.md §1
// calls for.
type Object struct {
	tape *Tape
	off  int
	// limit is one past the object's TagObjectEnd word - see Iter.Object.
	limit int
}

// NextElement sets dst to the next element and returns its key as a string.
// A nil error with an empty key and TypeNone means the object is exhausted.
func (o *Object) NextElement(dst *Iter) (string, Type, error) {
	name, t, err := o.NextElementBytes(dst)
	return string(name), t, err
}

// NextElementBytes is NextElement without the string allocation for the key.
func (o *Object) NextElementBytes(dst *Iter) (name []byte, t Type, err error) {
	if o.off >= o.limit {
		return nil, TypeNone, nil
	}
	w := o.tape.Words[o.off]
	tag := Tag(w >> tapeTagShift)
	switch tag {
	case TagObjectEnd:
		return nil, TypeNone, nil
	case TagString:
		if o.off+2 >= o.limit {
			return nil, TypeNone, newError(CodeIndexOutOfBounds, "object key without a paired value")
		}
		ref := decodeStringRef(w, o.tape.Words[o.off+1])
		name, err = o.tape.bytesAt(ref)
		if err != nil {
			return nil, TypeNone, err
		}
		o.off += 2
	default:
		return nil, TypeNone, newErrorf(CodeIncorrectType, "object: expected a key, found tag %v", tag)
	}

	vw := o.tape.Words[o.off]
	dst.tape = o.tape
	dst.cur = vw & tapeValueMask
	dst.t = Tag(vw >> tapeTagShift)
	o.off++
	dst.off = o.off
	dst.calcNext(false)
	end := dst.off + dst.addNext
	if end > o.limit {
		return nil, TypeNone, newError(CodeIndexOutOfBounds, "object value extends beyond tape")
	}
	dst.limit = end
	o.off = end
	return name, dst.t.Type(), nil
}

// FindKey returns a single named element without consuming the object, or
// nil if key is not present. Intended for one-off lookups; ForEach/Parse
// are cheaper when reading several keys from the same object.
func (o *Object) FindKey(key string, dst *Element) *Element {
	tmp := Object{tape: o.tape, off: o.off, limit: o.limit}
	var it Iter
	for {
		name, t, err := tmp.NextElementBytes(&it)
		if err != nil || t == TypeNone {
			return nil
		}
		if string(name) != key {
			continue
		}
		if dst == nil {
			dst = &Element{}
		}
		dst.Name = key
		dst.Type = t
		dst.Iter = it
		return dst
	}
}

// FindPath searches nested objects by a sequence of keys, e.g.
// FindPath(nil, "image", "url") descends into "image" then looks up "url".
// Returns ErrMissingField if any path segment is absent, or ErrIncorrectType
// if an intermediate segment's value is not an object.
func (o *Object) FindPath(dst *Element, path ...string) (*Element, error) {
	if len(path) == 0 {
		return dst, ErrMissingField
	}
	cur := *o
	for len(path) > 1 {
		elem := cur.FindKey(path[0], nil)
		if elem == nil {
			return dst, ErrMissingField
		}
		if elem.Type != TypeObject {
			return dst, newErrorf(CodeIncorrectType, "value of key %q is not an object", path[0])
		}
		next, err := elem.Iter.Object(nil)
		if err != nil {
			return dst, err
		}
		cur = *next
		path = path[1:]
	}
	elem := cur.FindKey(path[0], dst)
	if elem == nil {
		return dst, ErrMissingField
	}
	return elem, nil
}

// ForEach calls fn for every key in the object. If onlyKeys is non-empty,
// only matching keys are visited.
func (o *Object) ForEach(fn func(key []byte, v Iter) error, onlyKeys map[string]struct{}) error {
	tmp := Object{tape: o.tape, off: o.off, limit: o.limit}
	var it Iter
	seen := 0
	for {
		name, t, err := tmp.NextElementBytes(&it)
		if err != nil {
			return err
		}
		if t == TypeNone {
			return nil
		}
		if len(onlyKeys) > 0 {
			if _, ok := onlyKeys[string(name)]; !ok {
				continue
			}
		}
		if err := fn(name, it); err != nil {
			return err
		}
		seen++
		if len(onlyKeys) > 0 && seen == len(onlyKeys) {
			return nil
		}
	}
}

// Map unmarshals the object into dst (a fresh map is allocated if dst is
// nil), converting every value via Iter.Interface.
func (o *Object) Map(dst map[string]interface{}) (map[string]interface{}, error) {
	if dst == nil {
		dst = make(map[string]interface{})
	}
	var tmp Iter
	oo := *o
	for {
		name, t, err := oo.NextElementBytes(&tmp)
		if err != nil {
			return nil, err
		}
		if t == TypeNone {
			break
		}
		v, err := tmp.Interface()
		if err != nil {
			return nil, newErrorf(CodeIncorrectType, "parsing element %q: %v", name, err)
		}
		dst[string(name)] = v
	}
	return dst, nil
}

// Element is one key/value pair surfaced by Object.Parse/FindKey.
type Element struct {
	Name string
	Type Type
	Iter Iter
}

// Elements holds every element of an object in original tape order, plus a
// btree-backed index for ordered key lookup. SPEC_FULL.md's domain stack
// calls for tidwall/btree here rather than a plain map: Object.FindKey stays
// on the cheaper single-pass tape scan for one-off lookups (see DESIGN.md),
// but Object.Parse is for callers who want the whole object resolved once
// and then probed or iterated in key order repeatedly. Only Elements.Lookup
// reads the index inside this package; DebugDump walks the raw tape.
type Elements struct {
	Elements []Element
	Index    btree.Map[string, int]
}

// Parse resolves every element of the object into dst (or a fresh Elements
// if dst is nil), consuming the object.
func (o *Object) Parse(dst *Elements) (*Elements, error) {
	if dst == nil {
		dst = &Elements{Elements: make([]Element, 0, 5)}
	} else {
		dst.Elements = dst.Elements[:0]
		dst.Index = btree.Map[string, int]{}
	}
	var tmp Iter
	for {
		name, t, err := o.NextElementBytes(&tmp)
		if err != nil {
			return dst, err
		}
		if t == TypeNone {
			break
		}
		dst.Index.Set(string(name), len(dst.Elements))
		dst.Elements = append(dst.Elements, Element{Name: string(name), Type: t, Iter: tmp})
	}
	return dst, nil
}

// Lookup finds an element by key in an already-parsed Elements, or nil.
func (e *Elements) Lookup(key string) *Element {
	idx, ok := e.Index.Get(key)
	if !ok {
		return nil
	}
	return &e.Elements[idx]
}
