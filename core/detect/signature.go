package detect

import (
	"github.com/mlund/file-format/core/format"
)

// sigPart is one anchored byte sequence of a signature pattern. A non-nil
// mask marks wildcard positions: only the bits set in mask[i] take part in
// the comparison.
type sigPart struct {
	off   int
	bytes []byte
	mask  []byte
}

// signature is one catalog rule: a format recognized when every part of at
// least one alternative matches the prefix buffer. min is an additional
// minimum buffer length; a part never matches past the end of the buffer
// regardless of min.
type signature struct {
	format format.Format
	min    int
	alts   [][]sigPart
}

func part(off int, seq string) sigPart {
	return sigPart{off: off, bytes: []byte(seq)}
}

func masked(off int, seq, mask string) sigPart {
	return sigPart{off: off, bytes: []byte(seq), mask: []byte(mask)}
}

func alt(parts ...sigPart) []sigPart {
	return parts
}

func sig(f format.Format, alternatives ...[]sigPart) signature {
	return signature{format: f, alts: alternatives}
}

func sigMin(f format.Format, min int, alternatives ...[]sigPart) signature {
	return signature{format: f, min: min, alts: alternatives}
}

// catalog is the priority-ordered signature table. Ordering is an invariant
// maintained by hand: a rule whose pattern is a strict superset of a later
// rule's pattern must come first (DEB before the generic ar archive, brand
// specific ftyp rules before the generic one), and short ambiguous patterns
// ("MZ", "BM", the MPEG audio sync word) sit at the end. The matcher stops
// at the first hit; it never scores.
var catalog = []signature{
	sig(format.DebianPackage, alt(part(0, "!<arch>\ndebian-binary"))),
	sig(format.RedHatPackage, alt(part(0, "\xED\xAB\xEE\xDB"))),
	sig(format.UnixArchiver, alt(part(0, "!<arch>\n"))),
	sig(format.SevenZip, alt(part(0, "7z\xBC\xAF\x27\x1C"))),
	sig(format.Rar,
		alt(part(0, "Rar!\x1A\x07\x01\x00")),
		alt(part(0, "Rar!\x1A\x07\x00"))),
	sig(format.Cabinet, alt(part(0, "MSCF\x00\x00\x00\x00"))),
	sig(format.Xz, alt(part(0, "\xFD7zXZ\x00"))),
	sig(format.Zstandard, alt(part(0, "\x28\xB5\x2F\xFD"))),
	sig(format.Lz4, alt(part(0, "\x04\x22\x4D\x18"))),
	sig(format.Lzip, alt(part(0, "LZIP"))),
	sig(format.Bzip2, alt(part(0, "BZh"))),
	sig(format.Cpio,
		alt(part(0, "070701")),
		alt(part(0, "070707")),
		alt(part(0, "\xC7\x71"))),
	sig(format.Lha, alt(part(2, "-lh"), part(6, "-"))),
	sigMin(format.Tar, 262, alt(part(257, "ustar"))),
	sig(format.Iso9660,
		alt(part(0x8001, "CD001")),
		alt(part(0x8801, "CD001")),
		alt(part(0x9001, "CD001"))),
	sig(format.SQLite3, alt(part(0, "SQLite format 3\x00"))),
	sig(format.WindowsShortcut, alt(part(0, "\x4C\x00\x00\x00\x01\x14\x02\x00"))),
	sig(format.PcapNextGeneration, alt(part(0, "\x0A\x0D\x0D\x0A"))),
	sig(format.PcapDump,
		alt(part(0, "\xD4\xC3\xB2\xA1")),
		alt(part(0, "\xA1\xB2\xC3\xD4")),
		alt(part(0, "\x4D\x3C\xB2\xA1")),
		alt(part(0, "\xA1\xB2\x3C\x4D"))),
	sig(format.VirtualHardDisk, alt(part(0, "conectix"))),
	sig(format.VirtualHardDisk2, alt(part(0, "vhdxfile"))),
	sig(format.NintendoEntertainmentSystemROM, alt(part(0, "NES\x1A"))),
	sig(format.Mobipocket, alt(part(60, "BOOKMOBI"))),
	sig(format.Photoshop, alt(part(0, "8BPS"))),
	sig(format.PNG, alt(part(0, "\x89PNG\x0D\x0A\x1A\x0A"))),
	sig(format.JPEG, alt(part(0, "\xFF\xD8\xFF"))),
	sig(format.GIF,
		alt(part(0, "GIF87a")),
		alt(part(0, "GIF89a"))),
	sig(format.TIFF,
		alt(part(0, "II\x2A\x00")),
		alt(part(0, "MM\x00\x2A"))),
	sig(format.WebP, alt(part(0, "RIFF"), part(8, "WEBP"))),
	sig(format.WAV, alt(part(0, "RIFF"), part(8, "WAVE"))),
	sig(format.AVI, alt(part(0, "RIFF"), part(8, "AVI "))),
	sig(format.AIFF, alt(part(0, "FORM"), part(8, "AIFF"))),
	sig(format.JPEGXL,
		alt(part(0, "\xFF\x0A")),
		alt(part(0, "\x00\x00\x00\x0CJXL \x0D\x0A\x87\x0A"))),
	sig(format.OpenEXR, alt(part(0, "\x76\x2F\x31\x01"))),
	sig(format.FLAC, alt(part(0, "fLaC"))),
	sig(format.MIDI, alt(part(0, "MThd"))),
	sig(format.MonkeysAudio, alt(part(0, "MAC "))),
	sig(format.WavPack, alt(part(0, "wvpk"))),
	sig(format.Musepack,
		alt(part(0, "MPCK")),
		alt(part(0, "MP+"))),
	sig(format.Ogg, alt(part(0, "OggS"))),
	sig(format.ShockwaveFlash,
		alt(part(0, "CWS")),
		alt(part(0, "FWS")),
		alt(part(0, "ZWS"))),
	sig(format.FlashVideo, alt(part(0, "FLV\x01"))),
	sig(format.EBML, alt(part(0, "\x1A\x45\xDF\xA3"))),
	sig(format.RealMedia, alt(part(0, ".RMF"))),
	sig(format.ASF, alt(part(0, "\x30\x26\xB2\x75\x8E\x66\xCF\x11\xA6\xD9\x00\xAA\x00\x62\xCE\x6C"))),
	sig(format.CompoundFileBinary, alt(part(0, "\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1"))),

	// ISO base media: brand specific rules first, then the generic ftyp
	// rule whose match is refined by the box-tree reader.
	sig(format.HEIC,
		alt(part(4, "ftyp"), part(8, "heic")),
		alt(part(4, "ftyp"), part(8, "heix")),
		alt(part(4, "ftyp"), part(8, "hevc")),
		alt(part(4, "ftyp"), part(8, "hevx")),
		alt(part(4, "ftyp"), part(8, "mif1")),
		alt(part(4, "ftyp"), part(8, "msf1"))),
	sig(format.AVIF,
		alt(part(4, "ftyp"), part(8, "avif")),
		alt(part(4, "ftyp"), part(8, "avis"))),
	sig(format.CanonRaw3, alt(part(4, "ftyp"), part(8, "crx "))),
	sig(format.AppleQuickTime, alt(part(4, "ftyp"), part(8, "qt  "))),
	sig(format.AppleItunesAudio, alt(part(4, "ftyp"), part(8, "M4A "))),
	sig(format.AppleItunesAudiobook, alt(part(4, "ftyp"), part(8, "M4B "))),
	sig(format.AppleItunesVideo,
		alt(part(4, "ftyp"), part(8, "M4V ")),
		alt(part(4, "ftyp"), part(8, "M4VH")),
		alt(part(4, "ftyp"), part(8, "M4VP"))),
	sig(format.ThreeGPP2, alt(part(4, "ftyp"), part(8, "3g2"))),
	sig(format.ThreeGPP, alt(part(4, "ftyp"), part(8, "3gp"))),
	sig(format.MPEG4, alt(part(4, "ftyp"))),

	sig(format.Zip,
		alt(part(0, "PK\x03\x04")),
		alt(part(0, "PK\x05\x06")),
		alt(part(0, "PK\x07\x08"))),
	sig(format.PDF, alt(part(0, "%PDF-"))),
	sig(format.PostScript, alt(part(0, "%!PS"))),
	sig(format.RichTextFormat, alt(part(0, "{\\rtf"))),
	sig(format.XML,
		alt(part(0, "<?xml ")),
		alt(part(0, "\xEF\xBB\xBF<?xml"))),
	sig(format.PEMCertificate, alt(part(0, "-----BEGIN CERTIFICATE-----"))),
	sig(format.ELF, alt(part(0, "\x7FELF"))),
	sig(format.JavaClass, alt(part(0, "\xCA\xFE\xBA\xBE"))),
	sig(format.MachO,
		alt(part(0, "\xFE\xED\xFA\xCE")),
		alt(part(0, "\xFE\xED\xFA\xCF")),
		alt(part(0, "\xCE\xFA\xED\xFE")),
		alt(part(0, "\xCF\xFA\xED\xFE"))),
	sig(format.WebAssembly, alt(part(0, "\x00asm"))),
	sig(format.DalvikExecutable, alt(part(0, "dex\x0A"))),
	sig(format.LuaBytecode, alt(part(0, "\x1BLua"))),
	sig(format.JavaKeyStore, alt(part(0, "\xFE\xED\xFE\xED"))),
	sig(format.WOFF, alt(part(0, "wOFF"))),
	sig(format.WOFF2, alt(part(0, "wOF2"))),
	sig(format.OpenType, alt(part(0, "OTTO"))),
	sig(format.TrueType, alt(part(0, "\x00\x01\x00\x00\x00"))),
	sig(format.Gzip, alt(part(0, "\x1F\x8B"))),
	sig(format.UnixCompress,
		alt(part(0, "\x1F\x9D")),
		alt(part(0, "\x1F\xA0"))),
	sig(format.Arj, alt(part(0, "\x60\xEA"))),
	sig(format.MSDOSExecutable, alt(part(0, "MZ"))),
	sig(format.BMP, alt(part(0, "BM"))),
	sigMin(format.ICO, 6, alt(part(0, "\x00\x00\x01\x00"))),
	// MPEG audio frame sync: 0xFF followed by a layer III header byte. The
	// mask ignores the version and protection bits.
	sig(format.MP3,
		alt(part(0, "ID3")),
		alt(masked(0, "\xFF\xE2", "\xFF\xE6"))),
}

// matchSignature walks the catalog in priority order and returns the format
// of the first rule matching the prefix buffer.
func matchSignature(buf []byte) (format.Format, bool) {
	for i := range catalog {
		s := &catalog[i]
		if len(buf) < s.min {
			continue
		}
		for _, parts := range s.alts {
			if matchParts(buf, parts) {
				return s.format, true
			}
		}
	}
	return format.ArbitraryBinaryData, false
}

func matchParts(buf []byte, parts []sigPart) bool {
	for _, p := range parts {
		if p.off+len(p.bytes) > len(buf) {
			return false
		}
		for i, b := range p.bytes {
			got := buf[p.off+i]
			if p.mask != nil {
				if got&p.mask[i] != b {
					return false
				}
			} else if got != b {
				return false
			}
		}
	}
	return true
}
