package detect

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/mlund/file-format/core/format"
)

const (
	// zipTailLength bounds the backward scan for the end-of-central-directory
	// record: its fixed 22 bytes plus the maximum comment length.
	zipTailLength = 22 + 65535
	// zipMaxEntries bounds the central directory walk.
	zipMaxEntries = 4096
	// zipMaxMimetype bounds the stored mimetype entry content read.
	zipMaxMimetype = 256
)

var zipMimetypes = map[string]format.Format{
	"application/epub+zip":                            format.Epub,
	"application/vnd.oasis.opendocument.text":         format.OpenDocumentText,
	"application/vnd.oasis.opendocument.spreadsheet":  format.OpenDocumentSpreadsheet,
	"application/vnd.oasis.opendocument.presentation": format.OpenDocumentPresentation,
	"application/vnd.oasis.opendocument.graphics":     format.OpenDocumentGraphics,
}

// readZip disambiguates the ZIP container family from central directory
// metadata alone; no entry is ever decompressed. Entry names select the
// sibling formats (Office Open XML parts, the OpenDocument/EPUB mimetype
// entry, package manifests); a ZIP with no recognized marker is just a ZIP.
// A missing or malformed central directory is unresolved.
func readZip(r io.ReadSeeker) (format.Format, bool) {
	size, ok := streamSize(r)
	if !ok {
		return 0, false
	}

	tailLen := int64(zipTailLength)
	if tailLen > size {
		tailLen = size
	}
	tail, ok := readAt(r, size-tailLen, int(tailLen))
	if !ok {
		return 0, false
	}
	idx := bytes.LastIndex(tail, []byte("PK\x05\x06"))
	if idx < 0 || len(tail)-idx < 22 {
		return 0, false
	}
	eocd := tail[idx : idx+22]
	entryCount := int(binary.LittleEndian.Uint16(eocd[10:12]))
	cdOffset := int64(binary.LittleEndian.Uint32(eocd[16:20]))
	if cdOffset >= size {
		return 0, false
	}
	if entryCount > zipMaxEntries {
		entryCount = zipMaxEntries
	}

	var (
		mimetype string
		flags    zipMarkers
	)
	off := cdOffset
	for i := 0; i < entryCount; i++ {
		hdr, ok := readAt(r, off, 46)
		if !ok || !bytes.Equal(hdr[0:4], []byte("PK\x01\x02")) {
			return 0, false
		}
		method := binary.LittleEndian.Uint16(hdr[10:12])
		compressedSize := binary.LittleEndian.Uint32(hdr[20:24])
		nameLen := int(binary.LittleEndian.Uint16(hdr[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(hdr[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(hdr[32:34]))
		localOff := int64(binary.LittleEndian.Uint32(hdr[42:46]))

		rawName, ok := readAt(r, off+46, nameLen)
		if !ok {
			return 0, false
		}
		name := string(rawName)

		if name == "mimetype" && method == 0 {
			if m, ok := readStoredEntry(r, localOff, compressedSize); ok {
				mimetype = strings.TrimSpace(string(m))
			}
		}
		flags.mark(name)

		off += int64(46 + nameLen + extraLen + commentLen)
	}

	if f, ok := zipMimetypes[mimetype]; ok {
		return f, true
	}
	return flags.resolve(), true
}

// zipMarkers records which well-known entry names were seen during the
// central directory walk. Resolution order matters: an APK also carries
// META-INF entries, so the Android manifest wins over the Java archive
// markers, and the application server layouts win over the plain manifest.
type zipMarkers struct {
	androidManifest bool
	mozillaRSA      bool
	word            bool
	xl              bool
	ppt             bool
	visio           bool
	vsix            bool
	model3mf        bool
	kml             bool
	xap             bool
	earDescriptor   bool
	webInf          bool
	javaManifest    bool
}

func (m *zipMarkers) mark(name string) {
	switch {
	case name == "AndroidManifest.xml":
		m.androidManifest = true
	case name == "META-INF/mozilla.rsa":
		m.mozillaRSA = true
	case strings.HasPrefix(name, "word/"):
		m.word = true
	case strings.HasPrefix(name, "xl/"):
		m.xl = true
	case strings.HasPrefix(name, "ppt/"):
		m.ppt = true
	case strings.HasPrefix(name, "visio/"):
		m.visio = true
	case name == "extension.vsixmanifest":
		m.vsix = true
	case strings.HasPrefix(name, "3D/") && strings.HasSuffix(name, ".model"):
		m.model3mf = true
	case name == "doc.kml":
		m.kml = true
	case name == "AppManifest.xaml":
		m.xap = true
	case name == "META-INF/application.xml":
		m.earDescriptor = true
	case strings.HasPrefix(name, "WEB-INF/"):
		m.webInf = true
	case name == "META-INF/MANIFEST.MF":
		m.javaManifest = true
	}
}

func (m *zipMarkers) resolve() format.Format {
	switch {
	case m.androidManifest:
		return format.AndroidPackage
	case m.mozillaRSA:
		return format.XPInstall
	case m.word:
		return format.OfficeOpenXmlDocument
	case m.xl:
		return format.OfficeOpenXmlSpreadsheet
	case m.ppt:
		return format.OfficeOpenXmlPresentation
	case m.visio:
		return format.OfficeOpenXmlDrawing
	case m.vsix:
		return format.VisualStudioExtension
	case m.model3mf:
		return format.ThreeMF
	case m.kml:
		return format.KeyholeMarkupLanguageZipped
	case m.xap:
		return format.Xap
	case m.earDescriptor:
		return format.EnterpriseApplicationArchive
	case m.webInf:
		return format.WebApplicationArchive
	case m.javaManifest:
		return format.JavaArchive
	}
	return format.Zip
}

// readStoredEntry reads the content of an uncompressed entry through its
// local file header.
func readStoredEntry(r io.ReadSeeker, localOff int64, size uint32) ([]byte, bool) {
	hdr, ok := readAt(r, localOff, 30)
	if !ok || !bytes.Equal(hdr[0:4], []byte("PK\x03\x04")) {
		return nil, false
	}
	nameLen := int64(binary.LittleEndian.Uint16(hdr[26:28]))
	extraLen := int64(binary.LittleEndian.Uint16(hdr[28:30]))
	n := int(size)
	if n > zipMaxMimetype {
		n = zipMaxMimetype
	}
	return readAt(r, localOff+30+nameLen+extraLen, n)
}
