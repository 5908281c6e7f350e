package detect

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/mlund/file-format/core/format"
)

// classifyChunk is the stride of the generic classifier's single pass over
// the stream.
const classifyChunk = 64 << 10

// utf8BOM is tolerated at the start of a textual stream.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// classify is the universal terminal fallback: it re-reads the stream from
// the start and reports PlainText when every byte is printable ASCII,
// permitted whitespace or part of a valid UTF-8 sequence, and
// ArbitraryBinaryData otherwise. Only a stream read error can make it fail.
func (d *Detector) classify(r io.ReadSeeker) (format.Format, error) {
	if !d.opts.TextFallback {
		return format.ArbitraryBinaryData, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return format.ArbitraryBinaryData, fmt.Errorf("seek stream start: %w", err)
	}

	var (
		carry []byte
		first = true
	)
	buf := make([]byte, classifyChunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			if first {
				if len(chunk) >= len(utf8BOM) &&
					chunk[0] == utf8BOM[0] && chunk[1] == utf8BOM[1] && chunk[2] == utf8BOM[2] {
					chunk = chunk[len(utf8BOM):]
				}
				first = false
			}
			rest, ok := scanText(chunk)
			if !ok {
				return format.ArbitraryBinaryData, nil
			}
			carry = rest
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return format.ArbitraryBinaryData, fmt.Errorf("read stream: %w", err)
		}
	}
	// A trailing incomplete multi-byte sequence means truncated UTF-8.
	if len(carry) > 0 {
		return format.ArbitraryBinaryData, nil
	}
	return format.PlainText, nil
}

// scanText validates a chunk of candidate text, returning any trailing bytes
// that may be the start of a multi-byte sequence split across chunks.
func scanText(chunk []byte) (rest []byte, ok bool) {
	i := 0
	for i < len(chunk) {
		b := chunk[i]
		if b < 0x80 {
			if !textByte(b) {
				return nil, false
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(chunk[i:])
		if r == utf8.RuneError && size == 1 {
			// Possibly a sequence cut off at the chunk boundary.
			if len(chunk)-i < utf8.UTFMax {
				return chunk[i:], true
			}
			return nil, false
		}
		i += size
	}
	return nil, true
}

// textByte reports whether a single ASCII byte is acceptable in text:
// printable characters, common whitespace, or the escape character used by
// ANSI-colored output.
func textByte(b byte) bool {
	switch b {
	case '\t', '\n', '\v', '\f', '\r', 0x1B:
		return true
	}
	return b >= 0x20 && b != 0x7F
}
