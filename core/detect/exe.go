package detect

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mlund/file-format/core/format"
)

// imageFileDLL is the COFF characteristics bit marking a PE image as a
// dynamically loaded library.
const imageFileDLL = 0x2000

// readExecutable follows the legacy DOS header's pointer to the extended
// header and dispatches on its signature: PE (image or DLL), NE, or LE/LX.
// An out-of-range pointer or unknown signature reports false; the dispatch
// layer then keeps the MS-DOS executable identity, which is a legitimate
// final answer for this family.
func readExecutable(r io.ReadSeeker) (format.Format, bool) {
	hdr, ok := readAt(r, 0, 64)
	if !ok || !bytes.Equal(hdr[0:2], []byte("MZ")) {
		return 0, false
	}
	extOff := int64(binary.LittleEndian.Uint32(hdr[60:64]))
	if extOff < 4 {
		return 0, false
	}

	ext, ok := readAt(r, extOff, 2)
	if !ok {
		return 0, false
	}
	switch string(ext) {
	case "PE":
		// "PE\0\0", COFF header, characteristics at byte 22 of the
		// extended header.
		coff, ok := readAt(r, extOff, 24)
		if !ok || !bytes.Equal(coff[0:4], []byte("PE\x00\x00")) {
			return 0, false
		}
		characteristics := binary.LittleEndian.Uint16(coff[22:24])
		if characteristics&imageFileDLL != 0 {
			return format.DynamicLinkLibrary, true
		}
		return format.PortableExecutable, true
	case "NE":
		return format.NewExecutable, true
	case "LE", "LX":
		return format.LinearExecutable, true
	}
	return 0, false
}
