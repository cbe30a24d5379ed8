package streamtape

import "testing"

func parseTape(t *testing.T, doc string) *Tape {
	t.Helper()
	tape, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", doc, err)
	}
	return tape
}

func TestIterRootScalar(t *testing.T) {
	tape := parseTape(t, `42`)
	typ, it, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if typ != TypeInt {
		t.Fatalf("type = %v, want int", typ)
	}
	v, err := it.Int()
	if err != nil || v != 42 {
		t.Fatalf("Int() = %d, %v, want 42, nil", v, err)
	}
}

func TestIterAdvanceSkipsContainer(t *testing.T) {
	tape := parseTape(t, `[[1,2,3],"after"]`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	arr, err := root.Array(nil)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	it := arr.Iter()
	if typ := it.Advance(); typ != TypeArray {
		t.Fatalf("first element type = %v, want array", typ)
	}
	// Advance again without descending: should skip the nested array
	// entirely and land on the trailing string.
	if typ := it.Advance(); typ != TypeString {
		t.Fatalf("second element type = %v, want string (skipped nested array)", typ)
	}
	s, err := it.String()
	if err != nil || s != "after" {
		t.Fatalf("String() = %q, %v, want \"after\", nil", s, err)
	}
	if typ := it.Advance(); typ != TypeNone {
		t.Fatalf("expected exhausted iterator, got %v", typ)
	}
}

func TestIterAdvanceIterDescendsInPlace(t *testing.T) {
	tape := parseTape(t, `[[1,2,3],99]`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	arr, err := root.Array(nil)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	it := arr.Iter()

	// AdvanceIter with dst == &it must descend into the nested array
	// rather than skip past it.
	typ, err := it.AdvanceIter(&it)
	if err != nil {
		t.Fatalf("AdvanceIter: %v", err)
	}
	if typ != TypeArray {
		t.Fatalf("type = %v, want array", typ)
	}
	var got []int64
	for it.Advance() != TypeNone {
		v, err := it.Int()
		if err != nil {
			t.Fatalf("Int: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("nested array contents = %v, want [1 2 3]", got)
	}
}

func TestIterAdvanceIterIntoSeparateDst(t *testing.T) {
	tape := parseTape(t, `[{"x":1},2]`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	arr, err := root.Array(nil)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	outer := arr.Iter()

	var inner Iter
	typ, err := outer.AdvanceIter(&inner)
	if err != nil {
		t.Fatalf("AdvanceIter: %v", err)
	}
	if typ != TypeObject {
		t.Fatalf("type = %v, want object", typ)
	}
	obj, err := inner.Object(nil)
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	var val Iter
	name, vt, err := obj.NextElement(&val)
	if err != nil {
		t.Fatalf("NextElement: %v", err)
	}
	if name != "x" || vt != TypeInt {
		t.Fatalf("name=%q type=%v, want x/int", name, vt)
	}

	// outer must not have been advanced past the object - its next value
	// is still the trailing 2.
	if typ := outer.Advance(); typ != TypeInt {
		t.Fatalf("outer.Advance() = %v, want int (2)", typ)
	}
	v, err := outer.Int()
	if err != nil || v != 2 {
		t.Fatalf("outer.Int() = %d, %v, want 2, nil", v, err)
	}
}

func TestIterPeekNext(t *testing.T) {
	tape := parseTape(t, `[1,"two"]`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	arr, err := root.Array(nil)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	it := arr.Iter()
	if p := it.PeekNext(); p != TypeInt {
		t.Fatalf("PeekNext() = %v, want int", p)
	}
	it.Advance()
	if p := it.PeekNext(); p != TypeString {
		t.Fatalf("PeekNext() = %v, want string", p)
	}
	it.Advance()
	if p := it.PeekNext(); p != TypeNone {
		t.Fatalf("PeekNext() = %v, want none at end", p)
	}
}

func TestIterInterfaceNested(t *testing.T) {
	tape := parseTape(t, `{"a":[1,2],"b":null,"c":true}`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	v, err := root.Interface()
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("Interface() type = %T, want map[string]interface{}", v)
	}
	arr, ok := m["a"].([]interface{})
	if !ok || len(arr) != 2 {
		t.Fatalf("m[a] = %v, want [1 2]", m["a"])
	}
	if m["b"] != nil {
		t.Fatalf("m[b] = %v, want nil", m["b"])
	}
	if m["c"] != true {
		t.Fatalf("m[c] = %v, want true", m["c"])
	}
}

func TestIterIncorrectTypeErrors(t *testing.T) {
	tape := parseTape(t, `"hi"`)
	_, root, err := tape.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if _, err := root.Int(); err == nil {
		t.Fatal("expected error converting string to int")
	}
	if _, err := root.Object(nil); err == nil {
		t.Fatal("expected error treating a string as an object")
	}
}
