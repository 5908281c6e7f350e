// Package detect identifies the format of an opaque byte stream from its
// content alone.
//
// Detection runs in two stages. A signature matcher narrows the stream to a
// coarse format from a bounded prefix read, then, for formats that are
// generic containers, a family specific refinement reader parses just enough
// internal structure to resolve the precise sub-format. When neither stage
// produces an answer the generic classifier decides between plain text and
// arbitrary binary data.
//
// A detection call always returns a single format.Format; the only error a
// caller can see is an unreadable stream. Malformed or adversarial input
// degrades to a coarser answer, it never panics and never loops unbounded.
package detect

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mlund/file-format/core/format"
)

// prefixLength is the size of the initial read handed to the signature
// matcher. It covers the largest cataloged signature offset (the third
// ISO 9660 volume descriptor at 0x9001).
const prefixLength = 36870

// Options configures a Detector.
type Options struct {
	// TextFallback controls whether the generic classifier may report
	// PlainText for ASCII/UTF-8 content. When disabled the classifier
	// reports ArbitraryBinaryData only.
	TextFallback bool
}

// DefaultOptions enables the textual fallback.
func DefaultOptions() Options {
	return Options{TextFallback: true}
}

// Detector identifies file formats. The zero value disables the textual
// fallback; use New(DefaultOptions()) for the usual behavior. A Detector is
// stateless and safe for concurrent use.
type Detector struct {
	opts Options
}

// New creates a Detector with the given options.
func New(opts Options) *Detector {
	return &Detector{opts: opts}
}

var defaultDetector = New(DefaultOptions())

// FromBytes determines the format of an in-memory buffer using the default
// detector.
func FromBytes(b []byte) format.Format {
	return defaultDetector.FromBytes(b)
}

// FromFile determines the format of the file at path using the default
// detector.
func FromFile(path string) (format.Format, error) {
	return defaultDetector.FromFile(path)
}

// FromReader determines the format of a seekable stream using the default
// detector.
func FromReader(r io.ReadSeeker) (format.Format, error) {
	return defaultDetector.FromReader(r)
}

// FromBytes determines the format of an in-memory buffer.
func (d *Detector) FromBytes(b []byte) format.Format {
	f, err := d.FromReader(bytes.NewReader(b))
	if err != nil {
		// A bytes.Reader cannot fail; keep the universal fallback as a
		// safety net anyway.
		return format.ArbitraryBinaryData
	}
	return f
}

// FromFile determines the format of the file at path.
func (d *Detector) FromFile(path string) (format.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return format.ArbitraryBinaryData, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return d.FromReader(f)
}

// FromReader determines the format of a seekable stream. The stream is
// rewound to its start first, so repeated calls on the same stream yield the
// same answer.
func (d *Detector) FromReader(r io.ReadSeeker) (format.Format, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return format.ArbitraryBinaryData, fmt.Errorf("seek stream start: %w", err)
	}

	prefix := make([]byte, prefixLength)
	n, err := io.ReadFull(r, prefix)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return format.ArbitraryBinaryData, fmt.Errorf("read stream prefix: %w", err)
	}
	if n == 0 {
		return format.Empty, nil
	}

	if coarse, ok := matchSignature(prefix[:n]); ok {
		if final, ok := d.refine(coarse, r); ok {
			return final, nil
		}
		// The coarse identity was only a container family; the failed
		// refinement discards it rather than reporting a generic
		// container the content may not actually be.
		return d.classify(r)
	}
	return d.classify(r)
}

// refine narrows a coarse signature match by parsing container internals.
// The boolean reports whether the returned identity is final; false routes
// the caller to the generic classifier.
//
// The fallback is asymmetric by family. For archive style, structured
// storage, element tree and box tree containers the coarse identity is never
// a trustworthy final answer, so their readers report false on failure. The
// executable, page description and markup families keep the coarse identity
// instead: an MS-DOS executable with an unreadable extended header is still
// an MS-DOS executable.
func (d *Detector) refine(coarse format.Format, r io.ReadSeeker) (format.Format, bool) {
	switch coarse {
	case format.Zip:
		return readZip(r)
	case format.CompoundFileBinary:
		return readCompoundFileBinary(r)
	case format.EBML:
		return readEBML(r)
	case format.MPEG4:
		return readBoxTree(r)
	case format.ASF:
		return readASF(r)
	case format.RealMedia:
		return readRealMedia(r)
	case format.MSDOSExecutable:
		if f, ok := readExecutable(r); ok {
			return f, true
		}
		return coarse, true
	case format.PDF:
		return readPDF(r), true
	case format.XML:
		return readXMLDocument(r), true
	}
	return coarse, true
}
