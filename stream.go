package streamtape

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Stream is component E, spec §4.E: a per-stream (input-buffer, status)
// pair that accumulates chunks fed to it, autocompletes the tail into
// syntactically valid JSON, and drives the one-shot parsing pipeline
// (components A-D) over the result after every Feed call.
//
// A Tape returned by Value is a snapshot valid only until the next Feed
// call: Feed reparses in place and may reuse the same backing arrays, the
// way the teacher's `reuse *ParsedJson` parameter lets Parse overwrite a
// tape a caller is done with. Callers that need a partial value to outlive
// the next Feed must copy it out first (e.g. by rendering it with Stringify).
type Stream struct {
	id       uint64
	token    string
	maxDepth int

	raw     paddedBuffer // the true fed history; append-only, never truncated
	scratch paddedBuffer // reused to trial-parse an autocompleted tail

	indexer tokenIndexer
	iter    tokenIter
	builder *tapeBuilder

	tape      *Tape
	status    Status
	err       error
	remaining []byte
}

// NewStream creates a Stream ready to Feed, registering it in the package
// stream registry under a monotonically increasing, never-recycled id.
func NewStream(opts ...StreamOption) *Stream {
	s := &Stream{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(s)
	}
	s.indexer = newIndexer()
	s.builder = newTapeBuilder(s.maxDepth)
	s.id = registerStream(s)
	return s
}

// ID returns the Stream's registry id.
func (s *Stream) ID() uint64 { return s.id }

// Status returns the Stream's current progress classification.
func (s *Stream) Status() Status { return s.status }

// Feed appends chunk to the stream's buffer and reparses, updating Status.
// Feeding a stream that has already reached StatusComplete, StatusEndEarly
// or StatusError returns ErrStreamFinished without consuming chunk.
func (s *Stream) Feed(chunk []byte) error {
	switch s.status {
	case StatusComplete, StatusEndEarly, StatusError:
		return ErrStreamFinished
	}
	if err := s.raw.append(chunk); err != nil {
		s.status, s.err = StatusError, err
		return err
	}
	return s.reparse()
}

// Value returns the best-effort parsed Tape for the stream's current
// status: the real document on StatusComplete/StatusEndEarly, the
// autocompleted partial parse on StatusNeedsMore, or nil on StatusIdle (no
// value has emerged yet) and StatusError.
func (s *Stream) Value() (*Tape, error) {
	if s.status == StatusError {
		return nil, s.err
	}
	if s.status == StatusIdle {
		return nil, nil
	}
	return s.tape, nil
}

// RemainingBytes returns the bytes past the document boundary once Status
// is StatusEndEarly; nil otherwise.
func (s *Stream) RemainingBytes() []byte {
	if s.status != StatusEndEarly {
		return nil
	}
	return s.remaining
}

// Destroy removes the stream from the package registry. It does not
// release the stream's buffers; the Stream itself becomes eligible for GC
// once the caller drops its reference.
func (s *Stream) Destroy() {
	unregisterStream(s.id, s.token)
}

// reparse re-runs the parsing pipeline over the full accumulated buffer and
// updates status/err/remaining/tape accordingly.
func (s *Stream) reparse() error {
	tape := s.ensureTape()
	buildErr := s.parseInto(s.raw.full(), s.raw.docLen, tape, s.raw.doc())

	switch buildErr {
	case nil:
		s.status, s.err = StatusComplete, nil
		return nil
	case ErrTrailingContent:
		s.remaining = s.raw.doc()[int(s.iter.peekOffset()):]
		s.status, s.err = StatusEndEarly, buildErr
		return nil
	}

	if aerr, ok := buildErr.(*Error); ok && aerr.Code.Resource() {
		// Spec §7: "Resource errors always surface as error" — never try
		// to paper over an exceeded depth/capacity with autocompletion.
		s.status, s.err = StatusError, buildErr
		return buildErr
	}

	// A complete top-level value followed by a byte the indexer rejects
	// outright (one that cannot start any value) fails before the builder's
	// trailing-content check runs; that is still a document boundary.
	doc := s.raw.doc()
	if end, depth := (&autocompleter{}).scan(doc); depth == 0 && end > 0 {
		rest := skipWS(doc, end)
		if rest < len(doc) && s.scratch.reset(doc[:end]) == nil &&
			s.parseInto(s.scratch.full(), s.scratch.docLen, s.ensureTape(), doc) == nil {
			s.remaining = doc[rest:]
			s.status, s.err = StatusEndEarly, ErrTrailingContent
			return nil
		}
	}

	s.status = classifyParseError(buildErr, s.tryComplete())
	if s.status == StatusError {
		s.err = buildErr
		return buildErr
	}
	s.err = nil
	return nil
}

// tryComplete autocompletes the buffer's tail (see autocomplete.go) and
// reparses a private scratch copy, reporting whether that reparse succeeded.
// A true result means the original failure was purely a symptom of
// truncation, and s.tape now holds the autocompleted best-effort parse.
func (s *Stream) tryComplete() bool {
	ac := &autocompleter{}
	safeLen, safeDepth := ac.scan(s.raw.doc())
	if safeLen == 0 && safeDepth == 0 {
		return false
	}
	closer := closingBytes(ac.stack[:safeDepth])

	if err := s.scratch.reset(s.raw.doc()); err != nil {
		return false
	}
	s.scratch.truncate(safeLen)
	if err := s.scratch.append(closer); err != nil {
		return false
	}

	tape := s.ensureTape()
	if err := s.parseInto(s.scratch.full(), s.scratch.docLen, tape, s.scratch.doc()); err != nil {
		// The autocompleted prefix should always be syntactically valid;
		// reaching here means a resource limit (depth) tripped on the
		// completed form, which is still unrecoverable.
		return false
	}
	return true
}

// parseInto indexes and builds buf (padded to docLen) into tape, with
// tape.Message set to msg — the shared core of both the strict and
// autocompleted-fallback parse attempts.
func (s *Stream) parseInto(buf []byte, docLen int, tape *Tape, msg []byte) error {
	s.indexer.reset()
	offsets, err := s.indexer.index(buf, docLen)
	if err != nil {
		return err
	}
	s.iter.reset(buf, offsets)
	tape.Message = msg
	return s.builder.build(&s.iter, tape)
}

func (s *Stream) ensureTape() *Tape {
	if s.tape == nil {
		s.tape = &Tape{}
	} else {
		s.tape.Reset()
	}
	return s.tape
}

// Stream registry: monotonically assigned ids, never recycled even after
// Destroy, plus an xxhash-keyed index for callers that prefer to address a
// stream by an opaque correlation token instead of tracking the integer id.
var (
	streamRegistryMu sync.Mutex
	nextStreamID     uint64
	streamsByID      = map[uint64]*Stream{}
	streamsByToken   = map[uint64]uint64{}
)

func registerStream(s *Stream) uint64 {
	streamRegistryMu.Lock()
	defer streamRegistryMu.Unlock()
	nextStreamID++
	id := nextStreamID
	streamsByID[id] = s
	if s.token != "" {
		streamsByToken[xxhash.Sum64String(s.token)] = id
	}
	return id
}

func unregisterStream(id uint64, token string) {
	streamRegistryMu.Lock()
	defer streamRegistryMu.Unlock()
	delete(streamsByID, id)
	if token != "" {
		delete(streamsByToken, xxhash.Sum64String(token))
	}
}

// LookupStream resolves a previously created, not-yet-destroyed Stream by
// its registry id.
func LookupStream(id uint64) (*Stream, bool) {
	streamRegistryMu.Lock()
	defer streamRegistryMu.Unlock()
	s, ok := streamsByID[id]
	return s, ok
}

// LookupStreamByToken resolves a Stream created with WithCorrelationToken.
func LookupStreamByToken(token string) (*Stream, bool) {
	streamRegistryMu.Lock()
	id, ok := streamsByToken[xxhash.Sum64String(token)]
	streamRegistryMu.Unlock()
	if !ok {
		return nil, false
	}
	return LookupStream(id)
}
