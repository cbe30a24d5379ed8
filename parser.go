package streamtape

// Parser is the one-shot entry point for spec components A-D: it drives the
// structural indexer, token iterator, number parser and tape builder across
// a single complete document. It mirrors the teacher's top-level Parse
// function and internalParsedJson, but as a reusable value instead of a
// package-level function, so a caller can amortise its scratch buffers
// across repeated Parse calls the way the teacher's `reuse *ParsedJson`
// parameter does.
type Parser struct {
	maxDepth    int
	maxCap      int
	copyStrings bool

	buf     paddedBuffer
	indexer tokenIndexer
	iter    tokenIter
	builder *tapeBuilder
}

// NewParser constructs a Parser with the given options applied over the
// defaults (max depth 1024, max capacity 2^32, lazy string references).
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		maxDepth: defaultMaxDepth,
		maxCap:   maxCapacity,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.indexer = newIndexer()
	p.builder = newTapeBuilder(p.maxDepth)
	return p
}

// Parse parses a complete JSON document into a Tape. If reuse is non-nil
// its backing arrays are reset and reused instead of allocating a new Tape.
func (p *Parser) Parse(input []byte, reuse *Tape) (*Tape, error) {
	if len(input) > p.maxCap {
		return nil, ErrExceededCapacity
	}
	if err := p.buf.reset(input); err != nil {
		return nil, err
	}

	tape := reuse
	if tape == nil {
		tape = &Tape{}
	} else {
		tape.Reset()
	}

	if p.copyStrings {
		// Materialise a private copy so Tape.Message never aliases input,
		// matching the teacher's always-copy default.
		tape.Message = append([]byte(nil), input...)
	} else {
		tape.Message = input
	}

	p.indexer.reset()
	offsets, err := p.indexer.index(p.buf.full(), len(input))
	if err != nil {
		return nil, err
	}

	p.iter.reset(p.buf.full(), offsets)
	if err := p.builder.build(&p.iter, tape); err != nil {
		return nil, err
	}
	return tape, nil
}

// Reset releases a Parser's held input reference (not its scratch
// buffers) so it can be reused for an unrelated document.
func (p *Parser) Reset() {
	p.buf.reuse()
}

// Parse is a package-level convenience wrapping NewParser().Parse, for
// callers that don't need to amortise allocations across repeated calls —
// mirroring the teacher's package-level Parse(b, reuse) entry point.
func Parse(input []byte, reuse *Tape, opts ...ParserOption) (*Tape, error) {
	return NewParser(opts...).Parse(input, reuse)
}
