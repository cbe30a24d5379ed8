package streamtape

import (
	"testing"
)

// buildTape runs the full indexer -> token iterator -> tape builder
// pipeline over a document, the same sequence Parser.Parse drives.
func buildTape(t *testing.T, doc string) *Tape {
	t.Helper()
	var pb paddedBuffer
	if err := pb.reset([]byte(doc)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	ix := &structuralIndexer{}
	offsets, err := ix.index(pb.full(), len(doc))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	var it tokenIter
	it.reset(pb.full(), offsets)
	tape := &Tape{Message: []byte(doc)}
	tb := newTapeBuilder(defaultMaxDepth)
	if err := tb.build(&it, tape); err != nil {
		t.Fatalf("build: %v", err)
	}
	return tape
}

func tagsOf(tape *Tape) []Tag {
	var tags []Tag
	for i := 0; i < len(tape.Words); i++ {
		tag := Tag(tape.Words[i] >> tapeTagShift)
		tags = append(tags, tag)
		if tag == TagString {
			i++ // string words are a (offset,flags)/(length) pair
		}
	}
	return tags
}

func TestTapeBuilderObject(t *testing.T) {
	tape := buildTape(t, `{"a":"b","c":"d"}`)
	tags := tagsOf(tape)
	want := []Tag{TagRoot, TagObjectStart, TagString, TagString, TagString, TagString, TagObjectEnd, TagRoot}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags[%d] = %v, want %v", i, tags[i], want[i])
		}
	}

	rootOpen := tape.Words[0]
	rootClose := tape.Words[len(tape.Words)-1]
	if Tag(rootOpen>>tapeTagShift) != TagRoot || Tag(rootClose>>tapeTagShift) != TagRoot {
		t.Fatal("expected root words to bookend the tape")
	}
	rootClosePtr := (rootOpen & tapeValueMask) >> containerPtrShift
	if rootClosePtr != uint64(len(tape.Words)-1) {
		t.Fatalf("root open's close pointer = %d, want %d", rootClosePtr, len(tape.Words)-1)
	}

	objOpen := tape.Words[1]
	objChildren := (objOpen & tapeValueMask) & containerLenMask
	if objChildren != 2 {
		t.Fatalf("object child count = %d, want 2", objChildren)
	}
}

func TestTapeBuilderNestedContainers(t *testing.T) {
	tape := buildTape(t, `{"a":"b","c":[{"d":"e"},{"f":"g"}]}`)
	tags := tagsOf(tape)
	want := []Tag{
		TagRoot, TagObjectStart, TagString, TagString, TagString, TagArrayStart,
		TagObjectStart, TagString, TagString, TagObjectEnd,
		TagObjectStart, TagString, TagString, TagObjectEnd,
		TagArrayEnd, TagObjectEnd, TagRoot,
	}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v (%d), want %v (%d)", tags, len(tags), want, len(want))
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags[%d] = %v, want %v", i, tags[i], want[i])
		}
	}
}

func TestTapeBuilderScalarsAndNumbers(t *testing.T) {
	tape := buildTape(t, `[1, -2.5, true, false, null, "x"]`)
	tags := tagsOf(tape)
	want := []Tag{TagRoot, TagArrayStart, TagUint, TagFloat, TagBoolTrue, TagBoolFalse, TagNull, TagString, TagArrayEnd, TagRoot}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags[%d] = %v, want %v", i, tags[i], want[i])
		}
	}
}

func TestTapeBuilderEmptyContainers(t *testing.T) {
	tape := buildTape(t, `{"a":[],"b":{}}`)
	tags := tagsOf(tape)
	want := []Tag{TagRoot, TagObjectStart, TagString, TagArrayStart, TagArrayEnd, TagString, TagObjectStart, TagObjectEnd, TagObjectEnd, TagRoot}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
}

func TestTapeBuilderRejectsMismatchedBrackets(t *testing.T) {
	var pb paddedBuffer
	doc := `{"a":1]`
	if err := pb.reset([]byte(doc)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	ix := &structuralIndexer{}
	offsets, err := ix.index(pb.full(), len(doc))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	var it tokenIter
	it.reset(pb.full(), offsets)
	tape := &Tape{Message: []byte(doc)}
	tb := newTapeBuilder(defaultMaxDepth)
	if err := tb.build(&it, tape); err == nil {
		t.Fatal("expected an error for mismatched brackets")
	}
}

func TestTapeBuilderRejectsTrailingContent(t *testing.T) {
	tapeErr := func(doc string) error {
		var pb paddedBuffer
		if err := pb.reset([]byte(doc)); err != nil {
			t.Fatalf("reset: %v", err)
		}
		ix := &structuralIndexer{}
		offsets, err := ix.index(pb.full(), len(doc))
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		var it tokenIter
		it.reset(pb.full(), offsets)
		tape := &Tape{Message: []byte(doc)}
		return newTapeBuilder(defaultMaxDepth).build(&it, tape)
	}
	if err := tapeErr(`1 2`); err != ErrTrailingContent {
		t.Fatalf("err = %v, want ErrTrailingContent", err)
	}
}

func TestTapeBuilderRejectsExceededDepth(t *testing.T) {
	doc := ""
	for i := 0; i < 5; i++ {
		doc += "["
	}
	for i := 0; i < 5; i++ {
		doc += "]"
	}
	var pb paddedBuffer
	if err := pb.reset([]byte(doc)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	ix := &structuralIndexer{}
	offsets, err := ix.index(pb.full(), len(doc))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	var it tokenIter
	it.reset(pb.full(), offsets)
	tape := &Tape{Message: []byte(doc)}
	tb := newTapeBuilder(3)
	if err := tb.build(&it, tape); err != ErrExceededDepth {
		t.Fatalf("err = %v, want ErrExceededDepth", err)
	}
}
