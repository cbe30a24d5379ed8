package streamtape

// defaultMaxDepth is the nesting limit spec §4.D names as the default,
// overriding the teacher's fixed 128-deep containing_scope_offset array
// with a caller-configurable bound (see options.go's WithMaxDepth).
const defaultMaxDepth = 1024

// frame is one entry of the nesting stack: the teacher's unified_machine
// keeps containing_scope_offset/ret_address arrays indexed by depth; since
// depth is now configurable rather than a compile-time constant, this is a
// plain growable slice instead of a fixed-size array indexed the same way.
type frame struct {
	isObject bool
	openIdx  uint32
	children uint32
}

// tapeBuilder is component D, spec §4.D: it drives a tokenIter across a
// fully-indexed document and appends tagged words to a Tape, the portable
// equivalent of the teacher's unified_machine goto state machine.
type tapeBuilder struct {
	maxDepth int
}

func newTapeBuilder(maxDepth int) *tapeBuilder {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &tapeBuilder{maxDepth: maxDepth}
}

// builderState is the position within the object/array grammar the next
// token is expected to satisfy, standing in for teacher's labelled gotos
// (object_begin, object_key_state, object_continue, array_begin,
// main_array_switch, array_continue) collapsed onto one loop.
type builderState uint8

const (
	stateValue builderState = iota
	stateArrayBeginOrValue
	stateObjectKeyOrEnd
	stateObjectKey
	stateObjectColon
	stateCommaOrEnd
)

// build consumes every token it produces from it and appends the
// corresponding words to tape, starting with a root word at index 0 (spec
// §4.D: "tape[0] is always the root word").
func (b *tapeBuilder) build(it *tokenIter, tape *Tape) error {
	rootIdx := tape.currentLoc()
	tape.writeTag(0, TagRoot)

	if it.done() {
		return ErrEmpty
	}

	var stack []frame
	state := stateValue

	for {
		switch state {
		case stateValue, stateArrayBeginOrValue:
			if it.done() {
				return newError(CodeExpectedArrayCommaOrEnd, "unexpected end of input")
			}
			offset, c := it.next()
			if state == stateArrayBeginOrValue && c == ']' {
				if err := b.closeContainer(tape, &stack, byte(TagArrayEnd)); err != nil {
					return err
				}
				state = b.afterValue(stack)
				continue
			}
			opened, err := b.parseValue(it, tape, offset, c, &stack)
			if err != nil {
				return err
			}
			switch opened {
			case TagObjectStart:
				state = stateObjectKeyOrEnd
			case TagArrayStart:
				state = stateArrayBeginOrValue
			default:
				state = b.afterValue(stack)
			}

		case stateObjectKeyOrEnd:
			if it.done() {
				return newError(CodeExpectedObjectCommaOrEnd, "unexpected end of input")
			}
			offset, c := it.next()
			if c == '}' {
				if err := b.closeContainer(tape, &stack, byte(TagObjectEnd)); err != nil {
					return err
				}
				state = b.afterValue(stack)
				continue
			}
			if c != '"' {
				return newErrorf(CodeExpectedKey, "expected a key, got %q", c)
			}
			if err := b.parseString(it, tape, offset); err != nil {
				return err
			}
			state = stateObjectColon

		case stateObjectKey:
			if it.done() {
				return newError(CodeExpectedKey, "unexpected end of input")
			}
			offset, c := it.next()
			if c != '"' {
				return newErrorf(CodeExpectedKey, "expected a key, got %q", c)
			}
			if err := b.parseString(it, tape, offset); err != nil {
				return err
			}
			state = stateObjectColon

		case stateObjectColon:
			if it.done() {
				return newError(CodeExpectedColon, "unexpected end of input")
			}
			_, c := it.next()
			if c != ':' {
				return newErrorf(CodeExpectedColon, "expected ':', got %q", c)
			}
			state = stateValue

		case stateCommaOrEnd:
			top := stack[len(stack)-1]
			wantClose, wantCode := closeTagAndError(top.isObject)
			if it.done() {
				return newError(wantCode, "unexpected end of input")
			}
			_, c := it.next()
			switch {
			case c == ',' && top.isObject:
				state = stateObjectKey
			case c == ',' && !top.isObject:
				state = stateValue
			case c == wantClose:
				if err := b.closeContainer(tape, &stack, byte(wantClose)); err != nil {
					return err
				}
				state = b.afterValue(stack)
			default:
				return newErrorf(wantCode, "expected ',' or %q, got %q", wantClose, c)
			}

		default:
			// stateDone is reached via afterValue returning it; handled below.
			goto done
		}

		if state == stateDone {
			goto done
		}
	}

done:
	if !it.done() {
		return ErrTrailingContent
	}
	closeIdx := tape.currentLoc()
	tape.writeTag(uint64(rootIdx)<<containerPtrShift, TagRoot)
	tape.annotate(rootIdx, uint64(closeIdx)<<containerPtrShift)
	return nil
}

const stateDone builderState = 255

func closeTagAndError(isObject bool) (byte, ErrorCode) {
	if isObject {
		return '}', CodeExpectedObjectCommaOrEnd
	}
	return ']', CodeExpectedArrayCommaOrEnd
}

// afterValue decides what the grammar expects once a value (scalar or a
// just-closed container) has been fully written, based on what contains it,
// and credits that value to its parent's child count — the one place every
// kind of value (scalar, string, or a container that just closed) passes
// through exactly once.
func (b *tapeBuilder) afterValue(stack []frame) builderState {
	if len(stack) == 0 {
		return stateDone
	}
	top := &stack[len(stack)-1]
	if top.children < maxChildCount {
		top.children++
	}
	return stateCommaOrEnd
}

// parseValue dispatches on a value-starting token, used both at top level
// and for array elements (mirroring, but not duplicating, teacher's
// main_array_switch). It opens object/array frames or appends a scalar
// word, returning the tag it opened (TagEnd for scalars).
func (b *tapeBuilder) parseValue(it *tokenIter, tape *Tape, offset uint32, c byte, stack *[]frame) (Tag, error) {
	// Literals are checked against the document bytes only (up to the
	// end-of-input sentinel): the padding after them is zero bytes, which
	// atLiteralTerminator would not accept as a terminator.
	doc := it.buf[:it.offsets[len(it.offsets)-1]]
	switch c {
	case '"':
		return TagEnd, b.parseString(it, tape, offset)
	case 't':
		return TagEnd, b.parseAtom(doc, offset, "true", TagBoolTrue, tape)
	case 'f':
		return TagEnd, b.parseAtom(doc, offset, "false", TagBoolFalse, tape)
	case 'n':
		return TagEnd, b.parseAtom(doc, offset, "null", TagNull, tape)
	case '{':
		if len(*stack) >= b.maxDepth {
			return TagEnd, ErrExceededDepth
		}
		*stack = append(*stack, frame{isObject: true, openIdx: tape.currentLoc()})
		tape.writeTag(0, TagObjectStart)
		return TagObjectStart, nil
	case '[':
		if len(*stack) >= b.maxDepth {
			return TagEnd, ErrExceededDepth
		}
		*stack = append(*stack, frame{isObject: false, openIdx: tape.currentLoc()})
		tape.writeTag(0, TagArrayStart)
		return TagArrayStart, nil
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return TagEnd, b.parseNumberValue(doc, offset, tape)
		}
		return TagEnd, newErrorf(CodeInvalidNumberLiteral, "unexpected character %q", c)
	}
}

// closeContainer finalises the deepest open frame: the close word points
// back to the open word's index, and the open word is back-patched with a
// pointer forward to the close word plus the frame's final (saturating)
// child count.
func (b *tapeBuilder) closeContainer(tape *Tape, stack *[]frame, closeTag byte) error {
	n := len(*stack)
	if n == 0 {
		return newErrorf(CodeTrailingContent, "unmatched %q", closeTag)
	}
	top := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	closeIdx := tape.currentLoc()
	tape.writeTag(uint64(top.openIdx)<<containerPtrShift, Tag(closeTag))
	tape.annotate(top.openIdx, uint64(closeIdx)<<containerPtrShift|uint64(top.children))
	return nil
}

func (b *tapeBuilder) parseString(it *tokenIter, tape *Tape, quoteOffset uint32) error {
	rawLen, hasEscapes, err := scanString(it.buf, int(quoteOffset)+1)
	if err != nil {
		return err
	}
	tape.writeStringRef(quoteOffset+1, uint32(rawLen), hasEscapes)
	return nil
}

func (b *tapeBuilder) parseAtom(buf []byte, offset uint32, literal string, tag Tag, tape *Tape) error {
	end := int(offset) + len(literal)
	if end > len(buf) || string(buf[offset:end]) != literal {
		return newErrorf(CodeInvalidNumberLiteral, "invalid literal at offset %d, expected %q", offset, literal)
	}
	if !atLiteralTerminator(buf, end) {
		return newErrorf(CodeInvalidNumberLiteral, "trailing characters after %q at offset %d", literal, offset)
	}
	tape.writeTag(0, tag)
	return nil
}

func (b *tapeBuilder) parseNumberValue(buf []byte, offset uint32, tape *Tape) error {
	res, err := parseNumber(buf[offset:], HintAny)
	if err != nil {
		return err
	}
	if !atLiteralTerminator(buf, int(offset)+res.length) {
		return newError(CodeInvalidNumberLiteral, "trailing characters after number literal")
	}
	switch res.kind {
	case numUnsigned:
		tape.writeUnsigned(res.u)
	case numSigned:
		tape.writeSigned(res.i)
	case numDouble:
		tape.writeDouble(res.d)
	}
	return nil
}

// atLiteralTerminator reports whether buf[pos] legally ends a bare scalar
// literal (number, true/false/null): end of input, whitespace, or a
// structural byte. Anything else (another digit, a stray letter) is
// garbage the indexer folded into the same scalar run — spec §4.A step 5 —
// that only the literal parser itself can detect.
func atLiteralTerminator(buf []byte, pos int) bool {
	if pos >= len(buf) {
		return true
	}
	return classOf[buf[pos]] != classOther
}
