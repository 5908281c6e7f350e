package detect

import (
	"bytes"
	"io"
	"math/bits"

	"github.com/mlund/file-format/core/format"
)

// EBML element identifiers used for Matroska/WebM disambiguation.
const (
	ebmlHeaderID    = 0x1A45DFA3
	ebmlDocTypeID   = 0x4282
	ebmlSegmentID   = 0x18538067
	ebmlTracksID    = 0x1654AE6B
	ebmlTrackEntry  = 0xAE
	ebmlTrackTypeID = 0x83
	ebmlVideoID     = 0xE0
	ebmlStereoMode  = 0x53B8
)

// Matroska track type values.
const (
	trackTypeVideo    = 1
	trackTypeAudio    = 2
	trackTypeSubtitle = 17
)

// ebmlMaxChildren bounds every sibling walk so a crafted size field cannot
// turn the scan into an unbounded loop.
const ebmlMaxChildren = 256

// ebmlUnknownSize marks an element whose size field had all value bits set.
const ebmlUnknownSize = int64(-1)

// readEBML resolves an EBML stream to a Matroska sibling. The DocType of the
// top-level header selects WebM directly; a matroska DocType is refined by
// the track types found under Segment/Tracks. Anything else, including any
// structural inconsistency, is unresolved.
func readEBML(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}

	id, hdrSize, hdrLen, ok := ebmlElement(r, 0, size)
	if !ok || id != ebmlHeaderID || hdrSize == ebmlUnknownSize {
		return 0, false
	}

	docType, ok := ebmlDocType(r, int64(hdrLen), int64(hdrLen)+hdrSize)
	if !ok {
		return 0, false
	}
	switch docType {
	case "webm":
		return format.WebM, true
	case "matroska":
	default:
		return 0, false
	}

	segOff := int64(hdrLen) + hdrSize
	id, segSize, segLen, ok := ebmlElement(r, segOff, size)
	if !ok || id != ebmlSegmentID {
		return 0, false
	}
	segEnd := size
	if segSize != ebmlUnknownSize && segOff+int64(segLen)+segSize < size {
		segEnd = segOff + int64(segLen) + segSize
	}

	var tracks trackFlags
	off := segOff + int64(segLen)
	for i := 0; i < ebmlMaxChildren && off < segEnd; i++ {
		id, sz, ln, ok := ebmlElement(r, off, segEnd)
		if !ok || sz == ebmlUnknownSize {
			break
		}
		if id == ebmlTracksID {
			scanTracks(r, off+int64(ln), off+int64(ln)+sz, &tracks)
			break
		}
		off += int64(ln) + sz
	}

	switch {
	case tracks.video && tracks.stereo:
		return format.Matroska3DVideo, true
	case tracks.video:
		return format.MatroskaVideo, true
	case tracks.audio:
		return format.MatroskaAudio, true
	case tracks.subtitle:
		return format.MatroskaSubtitles, true
	}
	return 0, false
}

// trackFlags records what the TrackEntry scan found. stereo is set by a
// nonzero StereoMode in a track's Video settings.
type trackFlags struct {
	video    bool
	audio    bool
	subtitle bool
	stereo   bool
}

// scanTracks walks the TrackEntry children of a Tracks element and records
// the track types seen.
func scanTracks(r io.ReadSeeker, off, end int64, tracks *trackFlags) {
	for i := 0; i < ebmlMaxChildren && off < end; i++ {
		id, sz, ln, ok := ebmlElement(r, off, end)
		if !ok || sz == ebmlUnknownSize {
			return
		}
		if id == ebmlTrackEntry {
			scanTrackEntry(r, off+int64(ln), off+int64(ln)+sz, tracks)
		}
		off += int64(ln) + sz
	}
}

// scanTrackEntry reads the TrackType of one entry, and descends into its
// Video settings looking for a stereoscopy marker.
func scanTrackEntry(r io.ReadSeeker, off, end int64, tracks *trackFlags) {
	for i := 0; i < ebmlMaxChildren && off < end; i++ {
		id, sz, ln, ok := ebmlElement(r, off, end)
		if !ok || sz == ebmlUnknownSize {
			return
		}
		switch id {
		case ebmlTrackTypeID:
			if sz > 8 {
				return
			}
			switch ebmlUint(r, off+int64(ln), int(sz)) {
			case trackTypeVideo:
				tracks.video = true
			case trackTypeAudio:
				tracks.audio = true
			case trackTypeSubtitle:
				tracks.subtitle = true
			}
		case ebmlVideoID:
			videoStereo(r, off+int64(ln), off+int64(ln)+sz, tracks)
		}
		off += int64(ln) + sz
	}
}

// videoStereo scans a Video element for a nonzero StereoMode.
func videoStereo(r io.ReadSeeker, off, end int64, tracks *trackFlags) {
	for i := 0; i < ebmlMaxChildren && off < end; i++ {
		id, sz, ln, ok := ebmlElement(r, off, end)
		if !ok || sz == ebmlUnknownSize || sz > 8 {
			return
		}
		if id == ebmlStereoMode {
			if ebmlUint(r, off+int64(ln), int(sz)) != 0 {
				tracks.stereo = true
			}
			return
		}
		off += int64(ln) + sz
	}
}

// ebmlUint reads a big-endian unsigned integer payload of up to 8 bytes.
func ebmlUint(r io.ReadSeeker, off int64, n int) uint64 {
	raw, ok := readAt(r, off, n)
	if !ok {
		return 0
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	return v
}

// ebmlDocType scans the children of the EBML header for the DocType string.
func ebmlDocType(r io.ReadSeeker, off, end int64) (string, bool) {
	for i := 0; i < ebmlMaxChildren && off < end; i++ {
		id, sz, ln, ok := ebmlElement(r, off, end)
		if !ok || sz == ebmlUnknownSize || sz > 64 {
			return "", false
		}
		if id == ebmlDocTypeID {
			raw, ok := readAt(r, off+int64(ln), int(sz))
			if !ok {
				return "", false
			}
			return string(bytes.TrimRight(raw, "\x00")), true
		}
		off += int64(ln) + sz
	}
	return "", false
}

// ebmlElement reads one element header at off: a variable-width identifier
// followed by a variable-width size. The returned size is ebmlUnknownSize
// for the reserved all-ones encoding. An element extending past end, or any
// malformed width marker, reports false.
func ebmlElement(r io.ReadSeeker, off, end int64) (id uint32, size int64, headerLen int, ok bool) {
	raw, rok := readUpTo(r, off, 12)
	if !rok || len(raw) < 2 {
		return 0, 0, 0, false
	}

	idWidth := bits.LeadingZeros8(raw[0]) + 1
	if idWidth > 4 || idWidth > len(raw) {
		return 0, 0, 0, false
	}
	// Element identifiers keep their length marker bits.
	for i := 0; i < idWidth; i++ {
		id = id<<8 | uint32(raw[i])
	}

	rest := raw[idWidth:]
	if len(rest) == 0 {
		return 0, 0, 0, false
	}
	szWidth := bits.LeadingZeros8(rest[0]) + 1
	if szWidth > 8 || szWidth > len(rest) {
		return 0, 0, 0, false
	}
	size = int64(rest[0] &^ (0x80 >> (szWidth - 1)))
	allOnes := size == int64(0x7F>>(szWidth-1))
	for i := 1; i < szWidth; i++ {
		size = size<<8 | int64(rest[i])
		if rest[i] != 0xFF {
			allOnes = false
		}
	}
	headerLen = idWidth + szWidth
	if allOnes {
		return id, ebmlUnknownSize, headerLen, true
	}
	if size < 0 || off+int64(headerLen)+size > end {
		return 0, 0, 0, false
	}
	return id, size, headerLen, true
}
