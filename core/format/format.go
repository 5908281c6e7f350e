// Package format defines the closed set of detectable file formats and the
// static metadata attached to each of them (display name, short name, IANA
// media type, conventional extension and kind).
//
// The package holds no detection logic. It is the lookup table consumed after
// core/detect has produced a Format value.
package format

// Format identifies a single detectable file format.
//
// The set is closed: every value the detector can return is declared below,
// including the three sentinels Empty, ArbitraryBinaryData and PlainText.
type Format int

const (
	// ArbitraryBinaryData is the universal fallback for unrecognized content.
	// It is the zero value so an uninitialized Format degrades safely.
	ArbitraryBinaryData Format = iota
	// Empty identifies a zero-length input.
	Empty
	// PlainText identifies ASCII/UTF-8 text with no more specific format.
	PlainText

	// Archives.

	Zip
	Tar
	SevenZip
	Rar
	Cabinet
	Arj
	Cpio
	UnixArchiver
	Lha
	Iso9660

	// Compression.

	Gzip
	Bzip2
	Xz
	Zstandard
	Lz4
	Lzip
	UnixCompress

	// Packages.

	DebianPackage
	RedHatPackage
	AndroidPackage
	XPInstall
	VisualStudioExtension
	Xap

	// ZIP-based documents and containers.

	OfficeOpenXmlDocument
	OfficeOpenXmlSpreadsheet
	OfficeOpenXmlPresentation
	OfficeOpenXmlDrawing
	OpenDocumentText
	OpenDocumentSpreadsheet
	OpenDocumentPresentation
	OpenDocumentGraphics
	Epub
	JavaArchive
	WebApplicationArchive
	EnterpriseApplicationArchive
	ThreeMF
	KeyholeMarkupLanguageZipped

	// Compound File Binary and its siblings.

	CompoundFileBinary
	MicrosoftWordDocument
	MicrosoftExcelSpreadsheet
	MicrosoftPowerPointPresentation
	MicrosoftVisioDrawing
	MicrosoftSoftwareInstaller
	MicrosoftPublisherDocument

	// Documents.

	PDF
	AdobeIllustrator
	PostScript
	RichTextFormat
	Mobipocket

	// XML and its siblings.

	XML
	SVG
	RSS
	Atom
	GPX
	KeyholeMarkupLanguage
	XSLT
	MathML
	MusicXML
	Collada

	// Images.

	PNG
	JPEG
	GIF
	BMP
	TIFF
	WebP
	ICO
	Photoshop
	HEIC
	AVIF
	CanonRaw3
	JPEGXL
	OpenEXR

	// Audio.

	FLAC
	MP3
	Ogg
	WAV
	AIFF
	MIDI
	MonkeysAudio
	WavPack
	Musepack
	AppleItunesAudio
	AppleItunesAudiobook

	// Video and audiovisual containers.

	MPEG4
	MPEG4Audio
	MPEG4Video
	MPEG4Subtitles
	AppleQuickTime
	AppleItunesVideo
	ThreeGPP
	ThreeGPP2
	FlashVideo
	ShockwaveFlash
	AVI
	EBML
	MatroskaVideo
	Matroska3DVideo
	MatroskaAudio
	MatroskaSubtitles
	WebM
	ASF
	WindowsMediaAudio
	WindowsMediaVideo
	RealMedia
	RealAudio
	RealVideo

	// Executables.

	ELF
	MachO
	MSDOSExecutable
	PortableExecutable
	DynamicLinkLibrary
	NewExecutable
	LinearExecutable
	JavaClass
	WebAssembly
	DalvikExecutable
	LuaBytecode

	// Fonts.

	TrueType
	OpenType
	WOFF
	WOFF2

	// Certificates.

	PEMCertificate
	JavaKeyStore

	// Databases, disks, ROMs and captures.

	SQLite3
	VirtualHardDisk
	VirtualHardDisk2
	NintendoEntertainmentSystemROM
	WindowsShortcut
	PcapDump
	PcapNextGeneration

	// numFormats bounds the enumeration; keep it last.
	numFormats
)

// Count returns the number of declared formats, sentinels included.
func Count() int {
	return int(numFormats)
}

// Valid reports whether f is a declared format value.
func (f Format) Valid() bool {
	return f >= 0 && f < numFormats
}

// String returns the display name of the format.
func (f Format) String() string {
	return f.Name()
}

// Kind is the broad category a format belongs to.
type Kind int

const (
	// KindApplication covers data processed by some application program.
	KindApplication Kind = iota
	// KindArchive covers multi-file, possibly compressed, archives.
	KindArchive
	// KindAudio covers music, sound effects and spoken audio.
	KindAudio
	// KindBook covers ebooks.
	KindBook
	// KindCertificate covers digital certificates and key stores.
	KindCertificate
	// KindCompression covers compressed single files or streams.
	KindCompression
	// KindDatabase covers organized collections of data.
	KindDatabase
	// KindDisk covers disk and disc images.
	KindDisk
	// KindDocument covers formatted documents of all sorts.
	KindDocument
	// KindExecutable covers machine and virtual machine code.
	KindExecutable
	// KindFont covers typefaces.
	KindFont
	// KindGeospatial covers location-related data.
	KindGeospatial
	// KindImage covers still images.
	KindImage
	// KindModel covers 3D models and CAD data.
	KindModel
	// KindPackage covers installable program bundles.
	KindPackage
	// KindROM covers read-only memory images.
	KindROM
	// KindSubtitle covers subtitles and captions.
	KindSubtitle
	// KindSyndication covers web feeds.
	KindSyndication
	// KindText covers plain text and markup.
	KindText
	// KindVideo covers moving images.
	KindVideo
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindArchive:
		return "archive"
	case KindAudio:
		return "audio"
	case KindBook:
		return "book"
	case KindCertificate:
		return "certificate"
	case KindCompression:
		return "compression"
	case KindDatabase:
		return "database"
	case KindDisk:
		return "disk"
	case KindDocument:
		return "document"
	case KindExecutable:
		return "executable"
	case KindFont:
		return "font"
	case KindGeospatial:
		return "geospatial"
	case KindImage:
		return "image"
	case KindModel:
		return "model"
	case KindPackage:
		return "package"
	case KindROM:
		return "rom"
	case KindSubtitle:
		return "subtitle"
	case KindSyndication:
		return "syndication"
	case KindText:
		return "text"
	case KindVideo:
		return "video"
	}
	return "application"
}
