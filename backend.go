package streamtape

import "github.com/klauspost/cpuid/v2"

// tokenIndexer is satisfied by both indexer backends.
type tokenIndexer interface {
	reset()
	index(buf []byte, docLen int) ([]uint32, error)
}

// useVectorBackend is decided once at process start, the way the teacher's
// SupportedCPU gate picked between the AVX2 assembly path and a hard error.
// Here both backends are portable Go and always correct; the flag only
// chooses which one a given process runs, so it is a var (not a const) to
// let tests force either path.
var useVectorBackend = cpuid.CPU.Supports(cpuid.SSE2) || cpuid.CPU.Supports(cpuid.ASIMD)

func newIndexer() tokenIndexer {
	if useVectorBackend {
		return &structuralIndexerVector{}
	}
	return &structuralIndexer{}
}
