package detect

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/mlund/file-format/core/format"
)

const (
	// bmffMaxBoxes bounds the box walk at each nesting level.
	bmffMaxBoxes = 64
	// bmffMaxBrands bounds the compatible brand scan of the file type box.
	bmffMaxBrands = 32
)

// bmffBrands maps file type box brands to the sibling they identify
// outright. Brands of the generic MPEG-4 family are absent: those are
// refined by the movie box track handlers instead.
var bmffBrands = map[string]format.Format{
	"heic": format.HEIC,
	"heix": format.HEIC,
	"hevc": format.HEIC,
	"hevx": format.HEIC,
	"mif1": format.HEIC,
	"msf1": format.HEIC,
	"avif": format.AVIF,
	"avis": format.AVIF,
	"crx":  format.CanonRaw3,
	"qt":   format.AppleQuickTime,
	"M4A":  format.AppleItunesAudio,
	"M4B":  format.AppleItunesAudiobook,
	"M4V":  format.AppleItunesVideo,
	"M4VH": format.AppleItunesVideo,
	"M4VP": format.AppleItunesVideo,
	"F4V":  format.MPEG4Video,
	"F4A":  format.MPEG4Audio,
}

// readBoxTree refines a generic ISO base media container. The file type
// box brands are checked first (a generic major brand may still carry a
// specific compatible brand), then the movie box track handlers select the
// audio, video or subtitle sibling. Zero-size boxes and boxes running past
// the end of the stream truncate the walk as unresolved.
func readBoxTree(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}

	var video, audio, subtitle bool
	off := int64(0)
	for i := 0; i < bmffMaxBoxes && off < size; i++ {
		boxSize, boxType, hdrLen, ok := bmffBox(r, off, size)
		if !ok {
			return 0, false
		}
		switch boxType {
		case "ftyp":
			if f, ok := bmffFileType(r, off+int64(hdrLen), boxSize-int64(hdrLen)); ok {
				return f, true
			}
		case "moov":
			scanMovie(r, off+int64(hdrLen), off+boxSize, &video, &audio, &subtitle)
		}
		off += boxSize
	}

	switch {
	case video:
		return format.MPEG4Video, true
	case audio:
		return format.MPEG4Audio, true
	case subtitle:
		return format.MPEG4Subtitles, true
	}
	return 0, false
}

// bmffFileType matches the major and compatible brands against the brand
// table. Brand tags are trailing-space padded.
func bmffFileType(r io.ReadSeeker, off, length int64) (format.Format, bool) {
	n := int(length)
	if n > 8+4*bmffMaxBrands {
		n = 8 + 4*bmffMaxBrands
	}
	payload, ok := readUpTo(r, off, n)
	if !ok || len(payload) < 4 {
		return 0, false
	}
	if f, ok := bmffBrands[brandTag(payload[0:4])]; ok {
		return f, true
	}
	for p := 8; p+4 <= len(payload); p += 4 {
		if f, ok := bmffBrands[brandTag(payload[p : p+4])]; ok {
			return f, true
		}
	}
	return 0, false
}

func brandTag(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// scanMovie walks moov/trak/mdia/hdlr and records the handler types seen.
func scanMovie(r io.ReadSeeker, off, end int64, video, audio, subtitle *bool) {
	forEachBox(r, off, end, "trak", func(trakOff, trakEnd int64) {
		forEachBox(r, trakOff, trakEnd, "mdia", func(mdiaOff, mdiaEnd int64) {
			forEachBox(r, mdiaOff, mdiaEnd, "hdlr", func(hdlrOff, hdlrEnd int64) {
				if hdlrEnd-hdlrOff < 12 {
					return
				}
				raw, ok := readAt(r, hdlrOff+8, 4)
				if !ok {
					return
				}
				switch string(raw) {
				case "vide":
					*video = true
				case "soun":
					*audio = true
				case "sbtl", "subt", "text":
					*subtitle = true
				}
			})
		})
	})
}

// forEachBox invokes fn with the payload bounds of every direct child box of
// the given type. The walk stops at the first structural inconsistency.
func forEachBox(r io.ReadSeeker, off, end int64, boxType string, fn func(payloadOff, payloadEnd int64)) {
	for i := 0; i < bmffMaxBoxes && off < end; i++ {
		boxSize, typ, hdrLen, ok := bmffBox(r, off, end)
		if !ok {
			return
		}
		if typ == boxType {
			fn(off+int64(hdrLen), off+boxSize)
		}
		off += boxSize
	}
}

// bmffBox reads one box header at off: a 32-bit size and 4-byte type, with
// the 64-bit size extension when the size field holds 1 and the
// extends-to-end convention when it holds 0. A box smaller than its own
// header or extending past end reports false.
func bmffBox(r io.ReadSeeker, off, end int64) (boxSize int64, boxType string, hdrLen int, ok bool) {
	hdr, rok := readAt(r, off, 8)
	if !rok {
		return 0, "", 0, false
	}
	boxSize = int64(binary.BigEndian.Uint32(hdr[0:4]))
	boxType = string(hdr[4:8])
	hdrLen = 8
	switch boxSize {
	case 0:
		boxSize = end - off
	case 1:
		ext, rok := readAt(r, off+8, 8)
		if !rok {
			return 0, "", 0, false
		}
		v := binary.BigEndian.Uint64(ext)
		if v > uint64(end-off) {
			return 0, "", 0, false
		}
		boxSize = int64(v)
		hdrLen = 16
	}
	if boxSize < int64(hdrLen) || off+boxSize > end {
		return 0, "", 0, false
	}
	return boxSize, boxType, hdrLen, true
}
