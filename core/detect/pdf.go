package detect

import (
	"bytes"
	"io"

	"github.com/mlund/file-format/core/format"
)

const (
	// pdfScanWindow bounds the creator marker scan.
	pdfScanWindow = 4 << 20
	// pdfScanChunk is the scan stride.
	pdfScanChunk = 64 << 10
)

// aiMarker is the private data block Adobe Illustrator embeds in the PDF
// documents it writes.
var aiMarker = []byte("AIPrivateData")

// readPDF scans a bounded window of the document for the Illustrator
// creator marker. This path cannot fail: a PDF without the marker is a PDF.
func readPDF(r io.ReadSeeker) format.Format {
	carry := make([]byte, 0, len(aiMarker)-1)
	for off := int64(0); off < pdfScanWindow; off += pdfScanChunk {
		chunk, ok := readUpTo(r, off, pdfScanChunk)
		if !ok || len(chunk) == 0 {
			break
		}
		if bytes.Contains(chunk, aiMarker) {
			return format.AdobeIllustrator
		}
		// Check the seam between chunks as well.
		seam := append(append([]byte{}, carry...), chunk[:min(len(chunk), len(aiMarker)-1)]...)
		if bytes.Contains(seam, aiMarker) {
			return format.AdobeIllustrator
		}
		if len(chunk) < pdfScanChunk {
			break
		}
		carry = append(carry[:0], chunk[len(chunk)-(len(aiMarker)-1):]...)
	}
	return format.PDF
}
