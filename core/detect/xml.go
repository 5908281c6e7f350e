package detect

import (
	"io"

	"github.com/antchfx/xmlquery"

	"github.com/mlund/file-format/core/format"
)

// xmlParseLimit bounds the prefix handed to the XML parser.
const xmlParseLimit = 1 << 20

// xmlRoots maps document root element names to the format they identify.
var xmlRoots = map[string]format.Format{
	"svg":            format.SVG,
	"rss":            format.RSS,
	"feed":           format.Atom,
	"gpx":            format.GPX,
	"kml":            format.KeyholeMarkupLanguage,
	"stylesheet":     format.XSLT,
	"transform":      format.XSLT,
	"math":           format.MathML,
	"score-partwise": format.MusicXML,
	"score-timewise": format.MusicXML,
	"COLLADA":        format.Collada,
}

// readXMLDocument refines a generic XML match by its root element. Like the
// page description reader this path cannot fail: anything unparseable or
// unrecognized stays plain XML.
func readXMLDocument(r io.ReadSeeker) format.Format {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return format.XML
	}
	doc, err := xmlquery.Parse(io.LimitReader(r, xmlParseLimit))
	if err != nil {
		return format.XML
	}
	for node := doc.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		if f, ok := xmlRoots[node.Data]; ok {
			return f
		}
		break
	}
	return format.XML
}
