package wipe

// BufferSize maps a file length to the write-chunk size used for its
// overwrite passes. Small files are written in a single chunk; large files
// use 1% of their length, clamped to [min, max] so syscall overhead stays
// amortized without unbounded allocations.
//
// A zero or negative length yields 0 and the engine short-circuits the
// passes entirely.
func BufferSize(length, min, max int64) int64 {
	if length <= 0 {
		return 0
	}
	if length <= min {
		return length
	}
	size := length / 100
	if size < min {
		size = min
	}
	if size > max {
		size = max
	}
	return size
}
