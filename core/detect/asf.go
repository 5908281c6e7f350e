package detect

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"

	"github.com/mlund/file-format/core/format"
)

// asfMaxObjects bounds the header object walk.
const asfMaxObjects = 64

// ASF object and media type identifiers, in RFC 4122 order (the on-disk
// encoding is little-endian in the first three fields).
var (
	asfHeaderObject     = uuid.MustParse("75b22630-668e-11cf-a6d9-00aa0062ce6c")
	asfStreamProperties = uuid.MustParse("b7dc0791-a9b7-11cf-8ee6-00c00c205365")
	asfAudioMedia       = uuid.MustParse("f8699e40-5b4d-11cf-a8fd-00805f5c442b")
	asfVideoMedia       = uuid.MustParse("bc19efc0-5b4d-11cf-a8fd-00805f5c442b")
)

// readASF walks the header object's GUID-tagged children looking for stream
// properties objects and resolves the container by the media types they
// carry. A header carrying no media stream at all is still a valid ASF.
func readASF(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}

	// Header object: GUID, 64-bit size, child count, two reserved bytes.
	hdr, ok := readAt(r, 0, 30)
	if !ok || guidFromLE(hdr[0:16]) != asfHeaderObject {
		return 0, false
	}
	count := int(binary.LittleEndian.Uint32(hdr[24:28]))
	if count > asfMaxObjects {
		count = asfMaxObjects
	}

	var video, audio bool
	off := int64(30)
	for i := 0; i < count; i++ {
		obj, ok := readAt(r, off, 24)
		if !ok {
			return 0, false
		}
		objSize := int64(binary.LittleEndian.Uint64(obj[16:24]))
		if objSize < 24 || off+objSize > size {
			return 0, false
		}
		if guidFromLE(obj[0:16]) == asfStreamProperties {
			// The stream type GUID opens the object payload.
			media, ok := readAt(r, off+24, 16)
			if !ok {
				return 0, false
			}
			switch guidFromLE(media) {
			case asfVideoMedia:
				video = true
			case asfAudioMedia:
				audio = true
			}
		}
		off += objSize
	}

	switch {
	case video:
		return format.WindowsMediaVideo, true
	case audio:
		return format.WindowsMediaAudio, true
	}
	return format.ASF, true
}
