package streamtape

// ParserOption configures a Parser, mirroring the teacher's functional-
// options pattern (ParserOption over internalParsedJson).
type ParserOption func(*Parser)

// WithMaxDepth bounds container nesting (spec §4.D). The default is
// defaultMaxDepth (1024); 0 or a negative value restores it.
func WithMaxDepth(n int) ParserOption {
	return func(p *Parser) {
		if n <= 0 {
			n = defaultMaxDepth
		}
		p.maxDepth = n
	}
}

// WithMaxCapacity bounds the input size a Parser will accept (spec §3/§6's
// 2^32 ceiling by default). 0 or a negative value restores the default.
// It is a ParserOption only; a Stream always uses the default ceiling.
func WithMaxCapacity(n int) ParserOption {
	return func(p *Parser) {
		if n <= 0 {
			n = maxCapacity
		}
		p.maxCap = n
	}
}

// WithCopyStrings controls whether Parse copies the input into a private
// Tape.Message instead of referencing the caller's buffer. String tape
// words stay lazy offset references into Tape.Message either way.
//
// The teacher hard-codes this to true unconditionally (its doc comment
// explains why: pointing back into the caller's buffer is fragile once
// that buffer is streaming or reused). Spec §4.D makes strings
// reference-by-offset with on-demand decode the default instead, so this
// option exists to opt back into the teacher's eager-copy behavior for
// callers who plan to mutate or discard the source buffer right after
// parsing. Default: false (lazy references, decoded only on read).
func WithCopyStrings(b bool) ParserOption {
	return func(p *Parser) { p.copyStrings = b }
}

// StreamOption configures a Stream, the same functional-options shape as
// ParserOption.
type StreamOption func(*Stream)

// WithStreamMaxDepth bounds container nesting for a Stream's parses (see
// WithMaxDepth). 0 or negative restores the default.
func WithStreamMaxDepth(n int) StreamOption {
	return func(s *Stream) {
		if n <= 0 {
			n = defaultMaxDepth
		}
		s.maxDepth = n
	}
}

// WithCorrelationToken registers the Stream under an opaque caller-supplied
// string, resolvable later via LookupStreamByToken instead of the integer
// id returned by Stream.ID — for hosts that want to key streams off a
// request id or session token rather than track the integer themselves.
func WithCorrelationToken(token string) StreamOption {
	return func(s *Stream) { s.token = token }
}
