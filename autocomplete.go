package streamtape

// autocomplete implements spec §4.E's "always have a parseable prefix"
// guarantee: given a possibly-incomplete document (the bytes fed to a
// Stream so far), it returns the longest prefix that is syntactically
// complete JSON once any still-open containers are closed, plus those
// closing bytes appended.
//
// It runs the same object/array/value grammar tapeBuilder does, but where
// tapeBuilder treats premature end-of-input as an error, autocomplete
// treats it as "stop and use the last point a value fully completed" —
// walking the same states, it just never has to fail.
type autocompleter struct {
	stack []byte // '{' or '[' for each currently-open container, outermost first
}

// Complete returns the longest safe prefix of doc, plus the bytes needed to
// close every container still open at that point, reversed (innermost
// first). It is idempotent: running it again on its own output returns the
// input unchanged.
func Complete(doc []byte) []byte {
	ac := &autocompleter{}
	safeLen, safeDepth := ac.scan(doc)
	closer := closingBytes(ac.stack[:safeDepth])
	out := make([]byte, 0, safeLen+len(closer))
	out = append(out, doc[:safeLen]...)
	out = append(out, closer...)
	return out
}

// closingBytes renders the bytes needed to close every container in
// openStack (outermost first, as the builder's frame stack is ordered), one
// per entry, innermost first — e.g. ['{', '['] -> "]}".
func closingBytes(openStack []byte) []byte {
	out := make([]byte, len(openStack))
	for i, c := range openStack {
		j := len(openStack) - 1 - i
		if c == '{' {
			out[j] = '}'
		} else {
			out[j] = ']'
		}
	}
	return out
}

// scan walks doc and returns the longest safe cut point (byte offset) and
// the container-stack depth at that point (the first safeDepth entries of
// ac.stack describe the containers still open there — entries are never
// popped below a recorded safe point, only appended, so indices stay
// valid).
func (ac *autocompleter) scan(doc []byte) (safeLen int, safeDepth int) {
	i := 0
	state := stateValue
	record := func() {
		safeLen = i
		safeDepth = len(ac.stack)
	}
	// The root is always "safe" — an empty document autocompletes to "".
	record()

	for {
		i = skipWS(doc, i)
		if i >= len(doc) {
			return safeLen, safeDepth
		}
		switch state {
		case stateValue, stateArrayBeginOrValue:
			c := doc[i]
			if state == stateArrayBeginOrValue && c == ']' {
				i++
				ac.stack = ac.stack[:len(ac.stack)-1]
				state = ac.afterValue()
				record()
				continue
			}
			n, opened, ok := ac.scanValue(doc, i)
			if !ok {
				return safeLen, safeDepth
			}
			i = n
			switch opened {
			case '{':
				state = stateObjectKeyOrEnd
				record() // "{" alone is already valid once closed: {}
			case '[':
				state = stateArrayBeginOrValue
				record() // likewise "[" alone autocompletes to []
			default:
				state = ac.afterValue()
				record()
			}

		case stateObjectKeyOrEnd, stateObjectKey:
			if doc[i] == '}' && state == stateObjectKeyOrEnd {
				i++
				ac.stack = ac.stack[:len(ac.stack)-1]
				state = ac.afterValue()
				record()
				continue
			}
			if doc[i] != '"' {
				return safeLen, safeDepth
			}
			n, ok := ac.scanString(doc, i+1)
			if !ok {
				return safeLen, safeDepth
			}
			i = n
			state = stateObjectColon

		case stateObjectColon:
			if doc[i] != ':' {
				return safeLen, safeDepth
			}
			i++
			if i >= len(doc) {
				return safeLen, safeDepth
			}
			state = stateValue

		case stateCommaOrEnd:
			isObject := ac.stack[len(ac.stack)-1] == '{'
			want := byte(']')
			if isObject {
				want = '}'
			}
			c := doc[i]
			switch {
			case c == ',' && isObject:
				i++
				state = stateObjectKey
			case c == ',' && !isObject:
				i++
				state = stateValue
			case c == want:
				i++
				ac.stack = ac.stack[:len(ac.stack)-1]
				state = ac.afterValue()
				record()
			default:
				return safeLen, safeDepth
			}
		}
	}
}

func (ac *autocompleter) afterValue() builderState {
	if len(ac.stack) == 0 {
		return stateValue // the top-level value is complete; anything after it is scanned as a new value
	}
	return stateCommaOrEnd
}

// scanValue tries to consume one value starting at doc[i]. It returns the
// position just past the value, what it opened ('{', '[', or 0 for a
// complete scalar), and whether the value was complete enough to trust.
func (ac *autocompleter) scanValue(doc []byte, i int) (next int, opened byte, ok bool) {
	c := doc[i]
	switch c {
	case '{':
		ac.stack = append(ac.stack, '{')
		return i + 1, '{', true
	case '[':
		ac.stack = append(ac.stack, '[')
		return i + 1, '[', true
	case '"':
		n, ok := ac.scanString(doc, i+1)
		return n, 0, ok
	case 't':
		return matchAtom(doc, i, "true")
	case 'f':
		return matchAtom(doc, i, "false")
	case 'n':
		return matchAtom(doc, i, "null")
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return scanNumberPrefix(doc, i)
		}
		return i, 0, false
	}
}

// scanString returns the index just past a string's closing quote, given
// doc[start:] begins right after the opening quote. Reaching the end of
// doc before a matching quote (or with a dangling backslash) is "not yet
// complete", not an error — the whole string gets dropped by the caller
// truncating back to the last safe point.
func (ac *autocompleter) scanString(doc []byte, start int) (next int, ok bool) {
	i := start
	for i < len(doc) {
		c := doc[i]
		switch {
		case c == '"':
			return i + 1, true
		case c == '\\':
			if i+1 >= len(doc) {
				return 0, false
			}
			if doc[i+1] == 'u' {
				if i+6 > len(doc) {
					return 0, false
				}
				i += 6
			} else {
				i += 2
			}
		default:
			i++
		}
	}
	return 0, false
}

// skipWS advances past JSON's insignificant whitespace (space, tab, CR, LF),
// the same four bytes classOf treats as whitespace in the indexer.
func skipWS(doc []byte, i int) int {
	for i < len(doc) {
		switch doc[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

func matchAtom(doc []byte, i int, literal string) (next int, opened byte, ok bool) {
	end := i + len(literal)
	if end > len(doc) {
		return 0, 0, false
	}
	if string(doc[i:end]) != literal {
		return 0, 0, false
	}
	return end, 0, true
}

// scanNumberPrefix consumes as much of a number literal as is unambiguous:
// once it sees a digit that could still be extended by more digits arriving
// later (the literal runs right up to doc's end with nothing to terminate
// it), it reports incomplete rather than guess where the number would have
// stopped.
func scanNumberPrefix(doc []byte, i int) (next int, opened byte, ok bool) {
	res, err := parseNumber(doc[i:], HintAny)
	if err != nil {
		return 0, 0, false
	}
	end := i + res.length
	if end >= len(doc) {
		// The literal runs to the end of the buffered bytes: more digits
		// might still be coming, so it isn't safe to call it finished.
		return 0, 0, false
	}
	return end, 0, true
}
