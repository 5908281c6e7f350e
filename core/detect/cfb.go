package detect

import (
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/mlund/file-format/core/format"
)

const (
	// cfbHeaderLength is the fixed compound file header size.
	cfbHeaderLength = 512
	// cfbEndOfChain terminates a sector chain in the allocation table.
	cfbEndOfChain = 0xFFFFFFFE
	// cfbMaxDirBytes bounds the assembled directory stream.
	cfbMaxDirBytes = 1 << 20
	// cfbMaxDirEntries bounds the directory entry scan.
	cfbMaxDirEntries = 1024
)

// Root entry class identifiers of the known compound file siblings. The
// on-disk CLSID is little-endian in its first three fields; guidFromLE
// normalizes it before the lookup.
var cfbClassIDs = map[uuid.UUID]format.Format{
	uuid.MustParse("00020900-0000-0000-c000-000000000046"): format.MicrosoftWordDocument,
	uuid.MustParse("00020906-0000-0000-c000-000000000046"): format.MicrosoftWordDocument,
	uuid.MustParse("00020810-0000-0000-c000-000000000046"): format.MicrosoftExcelSpreadsheet,
	uuid.MustParse("00020820-0000-0000-c000-000000000046"): format.MicrosoftExcelSpreadsheet,
	uuid.MustParse("64818d10-4f9b-11cf-86ea-00aa00b929e8"): format.MicrosoftPowerPointPresentation,
	uuid.MustParse("000c1084-0000-0000-c000-000000000046"): format.MicrosoftSoftwareInstaller,
	uuid.MustParse("00021a13-0000-0000-c000-000000000046"): format.MicrosoftVisioDrawing,
	uuid.MustParse("00021a14-0000-0000-c000-000000000046"): format.MicrosoftVisioDrawing,
}

// Top-level stream names checked when the root class identifier is absent or
// unknown. Old writers frequently leave the CLSID zeroed.
var cfbStreamNames = map[string]format.Format{
	"WordDocument":        format.MicrosoftWordDocument,
	"Workbook":            format.MicrosoftExcelSpreadsheet,
	"Book":                format.MicrosoftExcelSpreadsheet,
	"PowerPoint Document": format.MicrosoftPowerPointPresentation,
	"VisioDocument":       format.MicrosoftVisioDrawing,
	"Quill":               format.MicrosoftPublisherDocument,
}

// readCompoundFileBinary resolves a compound file to one of its sibling
// formats by assembling the directory stream through the sector allocation
// table and inspecting the root entry class identifier, falling back to the
// top-level stream names. The chain walk is bounded by the maximum chain
// length the stream size allows, so a crafted cyclic allocation table
// terminates as unresolved instead of looping.
func readCompoundFileBinary(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}
	hdr, ok := readAt(r, 0, cfbHeaderLength)
	if !ok {
		return 0, false
	}

	shift := binary.LittleEndian.Uint16(hdr[30:32])
	if shift < 9 || shift > 12 {
		return 0, false
	}
	sectorSize := int64(1) << shift
	firstDirSector := binary.LittleEndian.Uint32(hdr[48:52])

	fat, ok := loadFAT(r, hdr, sectorSize)
	if !ok {
		return 0, false
	}

	// Upper bound on any legitimate chain, derived from the stream size
	// rather than any field read from the stream.
	maxChain := size/sectorSize + 1

	var dir []byte
	sector := firstDirSector
	for steps := int64(0); sector != cfbEndOfChain; steps++ {
		if steps > maxChain || int(sector) >= len(fat) {
			return 0, false
		}
		data, ok := readAt(r, cfbHeaderLength+int64(sector)*sectorSize, int(sectorSize))
		if !ok {
			return 0, false
		}
		dir = append(dir, data...)
		if len(dir) > cfbMaxDirBytes {
			return 0, false
		}
		sector = fat[sector]
	}
	if len(dir) < 128 {
		return 0, false
	}

	root := dir[0:128]
	clsid := guidFromLE(root[80:96])
	if f, ok := cfbClassIDs[clsid]; ok {
		return f, true
	}

	entries := len(dir) / 128
	if entries > cfbMaxDirEntries {
		entries = cfbMaxDirEntries
	}
	for i := 1; i < entries; i++ {
		entry := dir[i*128 : (i+1)*128]
		if f, ok := cfbStreamNames[dirEntryName(entry)]; ok {
			return f, true
		}
	}
	return format.CompoundFileBinary, true
}

// loadFAT reads the sector allocation table addressed by the header DIFAT.
// Only the 109 FAT sector references held in the header itself are followed;
// that covers far more directory metadata than disambiguation ever needs.
func loadFAT(r io.ReadSeeker, hdr []byte, sectorSize int64) ([]uint32, bool) {
	numFAT := binary.LittleEndian.Uint32(hdr[44:48])
	if numFAT > 109 {
		numFAT = 109
	}
	fat := make([]uint32, 0, int64(numFAT)*sectorSize/4)
	for i := uint32(0); i < numFAT; i++ {
		ref := binary.LittleEndian.Uint32(hdr[76+4*i : 80+4*i])
		if ref == cfbEndOfChain || ref == 0xFFFFFFFF {
			break
		}
		data, ok := readAt(r, cfbHeaderLength+int64(ref)*sectorSize, int(sectorSize))
		if !ok {
			return nil, false
		}
		for off := 0; off+4 <= len(data); off += 4 {
			fat = append(fat, binary.LittleEndian.Uint32(data[off:off+4]))
		}
	}
	if len(fat) == 0 {
		return nil, false
	}
	return fat, true
}

// dirEntryName decodes the UTF-16LE name of a 128-byte directory entry.
func dirEntryName(entry []byte) string {
	nameLen := int(binary.LittleEndian.Uint16(entry[64:66]))
	if nameLen < 2 || nameLen > 64 {
		return ""
	}
	// nameLen counts bytes including the terminating null.
	units := make([]uint16, 0, nameLen/2-1)
	for i := 0; i+2 <= nameLen-2; i += 2 {
		units = append(units, binary.LittleEndian.Uint16(entry[i:i+2]))
	}
	return string(utf16.Decode(units))
}

// guidFromLE converts an on-disk little-endian GUID (compound file CLSIDs,
// ASF object identifiers) to its RFC 4122 byte order.
func guidFromLE(b []byte) uuid.UUID {
	var be [16]byte
	be[0], be[1], be[2], be[3] = b[3], b[2], b[1], b[0]
	be[4], be[5] = b[5], b[4]
	be[6], be[7] = b[7], b[6]
	copy(be[8:], b[8:16])
	id, err := uuid.FromBytes(be[:])
	if err != nil {
		return uuid.Nil
	}
	return id
}
