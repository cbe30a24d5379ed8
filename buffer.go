package streamtape

// simdPadding is the number of extra bytes the indexer requires past the
// logical end of input: one block's worth, so the last real block can always
// be loaded as a full-width lane without a bounds check. Spec §3 calls this
// "padded by a small fixed amount (one SIMD vector's worth of bytes)".
const simdPadding = blockSize

// paddedBuffer is scratch space the indexer scans: the document followed by
// enough zero/whitespace padding to round up to a whole number of blockSize
// blocks plus one extra block. It never aliases caller memory — it exists
// purely so the indexer can always load full-width blocks. String tape words
// still reference the *original* input for one-shot parses (see Parser); for
// streaming parses the buffer below doubles as that original, since the
// stream already owns a private copy of every fed chunk (spec §3: "owned
// (streaming API; core copies each chunk into its buffer)").
type paddedBuffer struct {
	data   []byte
	docLen int
}

// reset copies doc into the scratch buffer, padding it out to a whole
// number of blocks plus simdPadding trailing zero bytes.
func (p *paddedBuffer) reset(doc []byte) error {
	if len(doc) > maxCapacity {
		return ErrExceededCapacity
	}
	padded := roundUpBlock(len(doc)) + simdPadding
	if cap(p.data) < padded {
		p.data = make([]byte, padded)
	} else {
		p.data = p.data[:padded]
		zero(p.data)
	}
	copy(p.data, doc)
	p.docLen = len(doc)
	return nil
}

// append grows an accumulating buffer (streaming use) by chunk, keeping the
// same padding invariant.
func (p *paddedBuffer) append(chunk []byte) error {
	if p.docLen+len(chunk) > maxCapacity {
		return ErrExceededCapacity
	}
	newLen := p.docLen + len(chunk)
	padded := roundUpBlock(newLen) + simdPadding
	if cap(p.data) < padded {
		grown := make([]byte, padded)
		copy(grown, p.data[:p.docLen])
		p.data = grown
	} else {
		p.data = p.data[:padded]
		zero(p.data[p.docLen:])
	}
	copy(p.data[p.docLen:], chunk)
	p.docLen = newLen
	return nil
}

// truncate shrinks the logical document length in place, used by the
// streaming autocompleter to roll back to a safe boundary. Capacity and
// padding bytes are untouched; only docLen moves.
func (p *paddedBuffer) truncate(n int) {
	if n < 0 || n > p.docLen {
		return
	}
	p.docLen = n
}

// doc returns the logical (unpadded) document bytes.
func (p *paddedBuffer) doc() []byte { return p.data[:p.docLen] }

// full returns the document plus its trailing padding, sized to a multiple
// of blockSize — what the indexer actually scans.
func (p *paddedBuffer) full() []byte {
	return p.data[:roundUpBlock(p.docLen)+simdPadding]
}

func (p *paddedBuffer) reuse() {
	p.docLen = 0
}

func roundUpBlock(n int) int {
	if n%blockSize == 0 {
		return n
	}
	return n + (blockSize - n%blockSize)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
