package arena

// DefaultChunkSize is the number of slots in each chunk of a region created
// by NewRegion.
const DefaultChunkSize = 256

// Region is a typed bump allocator. The zero value is ready to use and
// allocates chunks of DefaultChunkSize slots.
type Region[T any] struct {
	chunkSize int
	cur       []T // unused tail of the current chunk
	chunks    int
	used      int
}

// NewRegion creates a region whose chunks hold chunkSize slots.
// A non-positive chunkSize selects DefaultChunkSize.
func NewRegion[T any](chunkSize int) *Region[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Region[T]{chunkSize: chunkSize}
}

// New returns a pointer to a fresh zeroed slot.
func (r *Region[T]) New() *T {
	return &r.Slice(1)[0]
}

// Slice returns n contiguous zeroed slots. The capacity of the returned
// slice is n, so appending to it never writes into neighbouring slots.
// Slice(0) returns nil.
func (r *Region[T]) Slice(n int) []T {
	if n < 0 {
		panic("arena: negative slice length")
	}
	if n == 0 {
		return nil
	}
	if n > len(r.cur) {
		r.grow(n)
	}
	s := r.cur[:n:n]
	r.cur = r.cur[n:]
	r.used += n
	return s
}

// Copy copies src into the region and returns the region-owned copy.
func (r *Region[T]) Copy(src []T) []T {
	dst := r.Slice(len(src))
	copy(dst, src)
	return dst
}

// Len reports how many slots have been handed out.
func (r *Region[T]) Len() int {
	return r.used
}

// Chunks reports how many chunks have been allocated.
func (r *Region[T]) Chunks() int {
	return r.chunks
}

// grow starts a new chunk large enough for n slots. The unused tail of the
// previous chunk is abandoned.
func (r *Region[T]) grow(n int) {
	size := r.chunkSize
	if size <= 0 {
		size = DefaultChunkSize
		r.chunkSize = size
	}
	if n > size {
		size = n
	}
	r.cur = make([]T, size)
	r.chunks++
}
