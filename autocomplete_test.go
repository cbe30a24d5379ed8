package streamtape

import "testing"

func TestCompleteFullDocumentUnchanged(t *testing.T) {
	for _, doc := range []string{
		`{"a":1,"b":[2,3]}`,
		`[1,2,3]`,
		`[1e10]`,
		`"hello"`,
		`true`,
		`null`,
	} {
		got := string(Complete([]byte(doc)))
		if got != doc {
			t.Fatalf("Complete(%q) = %q, want unchanged", doc, got)
		}
	}
}

// A bare top-level number with nothing after it is inherently ambiguous in
// a streaming buffer — more digits could still be coming — so it never
// counts as a safe cut point on its own, unlike an atom (whose literal
// can't be extended) or a number followed by a real terminator.
func TestCompleteBareTrailingNumberStaysUnsafe(t *testing.T) {
	if got := Complete([]byte(`12345`)); len(got) != 0 {
		t.Fatalf("Complete(%q) = %q, want empty (ambiguous trailing digits)", `12345`, got)
	}
}

func TestCompleteEmptyDocument(t *testing.T) {
	if got := Complete(nil); len(got) != 0 {
		t.Fatalf("Complete(nil) = %q, want empty", got)
	}
}

func TestCompleteDropsInProgressKey(t *testing.T) {
	got := string(Complete([]byte(`{"a":1,"b":`)))
	if got != `{"a":1}` {
		t.Fatalf("got %q, want %q", got, `{"a":1}`)
	}
}

func TestCompleteDropsUnterminatedString(t *testing.T) {
	got := string(Complete([]byte(`{"k":"hel`)))
	if got != `{}` {
		t.Fatalf("got %q, want %q", got, `{}`)
	}
}

func TestCompleteDropsTrailingComma(t *testing.T) {
	got := string(Complete([]byte(`[1,2,`)))
	if got != `[1,2]` {
		t.Fatalf("got %q, want %q", got, `[1,2]`)
	}
}

func TestCompleteDropsDanglingAtomPrefix(t *testing.T) {
	got := string(Complete([]byte(`{"a":tr`)))
	if got != `{}` {
		t.Fatalf("got %q, want %q", got, `{}`)
	}
}

func TestCompleteDropsDanglingExponent(t *testing.T) {
	got := string(Complete([]byte(`[1,2e`)))
	if got != `[1]` {
		t.Fatalf("got %q, want %q", got, `[1]`)
	}
}

func TestCompleteNestedContainers(t *testing.T) {
	// The second element's object got as far as opening its brace before
	// truncation, so that much is kept — an opened-but-empty container is
	// itself a safe cut point, same as TestCompleteEmptyContainerOpenOnly.
	got := string(Complete([]byte(`{"a":[{"b":1},{"c":`)))
	want := `{"a":[{"b":1},{}]}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	in := []byte(`{"a":1,"b":`)
	once := Complete(in)
	twice := Complete(once)
	if string(once) != string(twice) {
		t.Fatalf("Complete not idempotent: %q vs %q", once, twice)
	}
}

func TestCompleteSkipsInsignificantWhitespace(t *testing.T) {
	// The safe cut point is right after "1" (the trailing whitespace before
	// the next token was never folded into the recorded safe length), so
	// the dropped dangling key "b" leaves no space before the added brace.
	got := string(Complete([]byte(`{ "a" : 1 , "b" : `)))
	want := `{ "a" : 1}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompleteEmptyContainerOpenOnly(t *testing.T) {
	if got := string(Complete([]byte(`[`))); got != `[]` {
		t.Fatalf("got %q, want %q", got, `[]`)
	}
	if got := string(Complete([]byte(`{`))); got != `{}` {
		t.Fatalf("got %q, want %q", got, `{}`)
	}
}
