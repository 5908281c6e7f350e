package detect

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mlund/file-format/core/format"
)

const (
	// rmMaxChunks bounds the chunk walk.
	rmMaxChunks = 64
	// rmMaxPayload bounds the media properties payload scan.
	rmMaxPayload = 1024
)

// readRealMedia walks the container's fixed-tag chunks and inspects the
// media properties payloads for their declared stream mime types. Video
// wins over audio when both are present; a container with neither is still
// a valid RealMedia file.
func readRealMedia(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}

	var video, audio bool
	off := int64(0)
	for i := 0; i < rmMaxChunks && off < size; i++ {
		hdr, ok := readAt(r, off, 8)
		if !ok {
			break
		}
		tag := string(hdr[0:4])
		chunkSize := int64(binary.BigEndian.Uint32(hdr[4:8]))
		if i == 0 && tag != ".RMF" {
			return 0, false
		}
		if chunkSize < 8 || off+chunkSize > size {
			return 0, false
		}
		if tag == "MDPR" {
			n := int(chunkSize - 8)
			if n > rmMaxPayload {
				n = rmMaxPayload
			}
			payload, ok := readUpTo(r, off+8, n)
			if !ok {
				return 0, false
			}
			if bytes.Contains(payload, []byte("video/")) {
				video = true
			}
			if bytes.Contains(payload, []byte("audio/")) {
				audio = true
			}
		}
		off += chunkSize
	}

	switch {
	case video:
		return format.RealVideo, true
	case audio:
		return format.RealAudio, true
	}
	return format.RealMedia, true
}
