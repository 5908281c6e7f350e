package detect

import (
	"io"
)

// maxReadChunk caps a single bounded read so a forged size field can never
// force an oversized allocation.
const maxReadChunk = 1 << 20

// readAt reads exactly n bytes at absolute offset off. Any seek error, short
// read or out-of-bounds request reports false; refinement readers treat that
// as an unresolved structure, never as a fatal error.
func readAt(r io.ReadSeeker, off int64, n int) ([]byte, bool) {
	if off < 0 || n < 0 || n > maxReadChunk {
		return nil, false
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, false
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, false
	}
	return buf, true
}

// readUpTo reads at most n bytes at absolute offset off, tolerating a short
// read at end of stream.
func readUpTo(r io.ReadSeeker, off int64, n int) ([]byte, bool) {
	if off < 0 || n < 0 || n > maxReadChunk {
		return nil, false
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, false
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, false
	}
	return buf[:read], true
}

// streamSize returns the total length of the stream.
func streamSize(r io.ReadSeeker) (int64, bool) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false
	}
	return size, true
}
