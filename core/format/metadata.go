package format

// metadata is the static record attached to one Format.
type metadata struct {
	name  string
	short string
	media string
	ext   string
	kind  Kind
}

// fallback is returned for any Format value missing from the table, so the
// accessors below stay total even on an invalid value.
var fallback = metadata{
	name:  "Arbitrary Binary Data",
	short: "BIN",
	media: "application/octet-stream",
	ext:   "bin",
	kind:  KindApplication,
}

var table = map[Format]metadata{
	ArbitraryBinaryData: fallback,
	Empty:               {"Empty", "", "application/x-empty", "empty", KindApplication},
	PlainText:           {"Plain Text", "TXT", "text/plain", "txt", KindText},

	Zip:          {"ZIP", "ZIP", "application/zip", "zip", KindArchive},
	Tar:          {"Tape Archive", "TAR", "application/x-tar", "tar", KindArchive},
	SevenZip:     {"7-Zip", "7Z", "application/x-7z-compressed", "7z", KindArchive},
	Rar:          {"Roshal Archive", "RAR", "application/vnd.rar", "rar", KindArchive},
	Cabinet:      {"Cabinet", "CAB", "application/vnd.ms-cab-compressed", "cab", KindArchive},
	Arj:          {"Archived by Robert Jung", "ARJ", "application/x-arj", "arj", KindArchive},
	Cpio:         {"cpio", "CPIO", "application/x-cpio", "cpio", KindArchive},
	UnixArchiver: {"UNIX archiver", "AR", "application/x-archive", "a", KindArchive},
	Lha:          {"LHA", "LHA", "application/x-lzh-compressed", "lzh", KindArchive},
	Iso9660:      {"ISO 9660", "ISO", "application/x-iso9660-image", "iso", KindDisk},

	Gzip:         {"gzip", "GZ", "application/gzip", "gz", KindCompression},
	Bzip2:        {"bzip2", "BZ2", "application/x-bzip2", "bz2", KindCompression},
	Xz:           {"XZ", "XZ", "application/x-xz", "xz", KindCompression},
	Zstandard:    {"Zstandard", "ZST", "application/zstd", "zst", KindCompression},
	Lz4:          {"LZ4", "LZ4", "application/x-lz4", "lz4", KindCompression},
	Lzip:         {"lzip", "LZ", "application/x-lzip", "lz", KindCompression},
	UnixCompress: {"UNIX compress", "Z", "application/x-compress", "Z", KindCompression},

	DebianPackage:         {"Debian Binary Package", "DEB", "application/vnd.debian.binary-package", "deb", KindPackage},
	RedHatPackage:         {"Red Hat Package Manager", "RPM", "application/x-rpm", "rpm", KindPackage},
	AndroidPackage:        {"Android Package", "APK", "application/vnd.android.package-archive", "apk", KindPackage},
	XPInstall:             {"XPInstall", "XPI", "application/x-xpinstall", "xpi", KindPackage},
	VisualStudioExtension: {"Microsoft Visual Studio Extension", "VSIX", "application/vsix", "vsix", KindPackage},
	Xap:                   {"XAP", "XAP", "application/x-silverlight-app", "xap", KindPackage},

	OfficeOpenXmlDocument:        {"Office Open XML Document", "DOCX", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx", KindDocument},
	OfficeOpenXmlSpreadsheet:     {"Office Open XML Spreadsheet", "XLSX", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", KindDocument},
	OfficeOpenXmlPresentation:    {"Office Open XML Presentation", "PPTX", "application/vnd.openxmlformats-officedocument.presentationml.presentation", "pptx", KindDocument},
	OfficeOpenXmlDrawing:         {"Office Open XML Drawing", "VSDX", "application/vnd.ms-visio.drawing.main+xml", "vsdx", KindDocument},
	OpenDocumentText:             {"OpenDocument Text", "ODT", "application/vnd.oasis.opendocument.text", "odt", KindDocument},
	OpenDocumentSpreadsheet:      {"OpenDocument Spreadsheet", "ODS", "application/vnd.oasis.opendocument.spreadsheet", "ods", KindDocument},
	OpenDocumentPresentation:     {"OpenDocument Presentation", "ODP", "application/vnd.oasis.opendocument.presentation", "odp", KindDocument},
	OpenDocumentGraphics:         {"OpenDocument Graphics", "ODG", "application/vnd.oasis.opendocument.graphics", "odg", KindDocument},
	Epub:                         {"Electronic Publication", "EPUB", "application/epub+zip", "epub", KindBook},
	JavaArchive:                  {"Java Archive", "JAR", "application/java-archive", "jar", KindPackage},
	WebApplicationArchive:        {"Web Application Archive", "WAR", "application/java-archive", "war", KindPackage},
	EnterpriseApplicationArchive: {"Enterprise Application Archive", "EAR", "application/java-archive", "ear", KindPackage},
	ThreeMF:                      {"3D Manufacturing Format", "3MF", "application/vnd.ms-package.3dmanufacturing-3dmodel+xml", "3mf", KindModel},
	KeyholeMarkupLanguageZipped:  {"Keyhole Markup Language Zipped", "KMZ", "application/vnd.google-earth.kmz", "kmz", KindGeospatial},

	CompoundFileBinary:              {"Compound File Binary", "CFB", "application/x-cfb", "cfb", KindApplication},
	MicrosoftWordDocument:           {"Microsoft Word Document", "DOC", "application/msword", "doc", KindDocument},
	MicrosoftExcelSpreadsheet:       {"Microsoft Excel Spreadsheet", "XLS", "application/vnd.ms-excel", "xls", KindDocument},
	MicrosoftPowerPointPresentation: {"Microsoft PowerPoint Presentation", "PPT", "application/vnd.ms-powerpoint", "ppt", KindDocument},
	MicrosoftVisioDrawing:           {"Microsoft Visio Drawing", "VSD", "application/vnd.visio", "vsd", KindDocument},
	MicrosoftSoftwareInstaller:      {"Microsoft Software Installer", "MSI", "application/x-msi", "msi", KindPackage},
	MicrosoftPublisherDocument:      {"Microsoft Publisher Document", "PUB", "application/vnd.ms-publisher", "pub", KindDocument},

	PDF:              {"Portable Document Format", "PDF", "application/pdf", "pdf", KindDocument},
	AdobeIllustrator: {"Adobe Illustrator Artwork", "AI", "application/vnd.adobe.illustrator", "ai", KindImage},
	PostScript:       {"PostScript", "PS", "application/postscript", "ps", KindDocument},
	RichTextFormat:   {"Rich Text Format", "RTF", "application/rtf", "rtf", KindDocument},
	Mobipocket:       {"Mobipocket", "MOBI", "application/x-mobipocket-ebook", "mobi", KindBook},

	XML:                   {"Extensible Markup Language", "XML", "text/xml", "xml", KindText},
	SVG:                   {"Scalable Vector Graphics", "SVG", "image/svg+xml", "svg", KindImage},
	RSS:                   {"Really Simple Syndication", "RSS", "application/rss+xml", "rss", KindSyndication},
	Atom:                  {"Atom", "", "application/atom+xml", "atom", KindSyndication},
	GPX:                   {"GPS Exchange Format", "GPX", "application/gpx+xml", "gpx", KindGeospatial},
	KeyholeMarkupLanguage: {"Keyhole Markup Language", "KML", "application/vnd.google-earth.kml+xml", "kml", KindGeospatial},
	XSLT:                  {"Extensible Stylesheet Language Transformations", "XSLT", "application/xslt+xml", "xsl", KindText},
	MathML:                {"Mathematical Markup Language", "MathML", "application/mathml+xml", "mathml", KindText},
	MusicXML:              {"MusicXML", "", "application/vnd.recordare.musicxml+xml", "musicxml", KindDocument},
	Collada:               {"Digital Asset Exchange", "DAE", "model/vnd.collada+xml", "dae", KindModel},

	PNG:       {"Portable Network Graphics", "PNG", "image/png", "png", KindImage},
	JPEG:      {"Joint Photographic Experts Group", "JPEG", "image/jpeg", "jpg", KindImage},
	GIF:       {"Graphics Interchange Format", "GIF", "image/gif", "gif", KindImage},
	BMP:       {"Windows Bitmap", "BMP", "image/bmp", "bmp", KindImage},
	TIFF:      {"Tag Image File Format", "TIFF", "image/tiff", "tif", KindImage},
	WebP:      {"WebP", "", "image/webp", "webp", KindImage},
	ICO:       {"Windows Icon", "ICO", "image/x-icon", "ico", KindImage},
	Photoshop: {"Adobe Photoshop Document", "PSD", "image/vnd.adobe.photoshop", "psd", KindImage},
	HEIC:      {"High Efficiency Image Coding", "HEIC", "image/heic", "heic", KindImage},
	AVIF:      {"AV1 Image File Format", "AVIF", "image/avif", "avif", KindImage},
	CanonRaw3: {"Canon Raw 3", "CR3", "image/x-canon-cr3", "cr3", KindImage},
	JPEGXL:    {"JPEG XL", "JXL", "image/jxl", "jxl", KindImage},
	OpenEXR:   {"OpenEXR", "EXR", "image/x-exr", "exr", KindImage},

	FLAC:                 {"Free Lossless Audio Codec", "FLAC", "audio/x-flac", "flac", KindAudio},
	MP3:                  {"MPEG-1/2 Audio Layer 3", "MP3", "audio/mpeg", "mp3", KindAudio},
	Ogg:                  {"Ogg", "OGG", "application/ogg", "ogg", KindAudio},
	WAV:                  {"Waveform Audio", "WAV", "audio/vnd.wave", "wav", KindAudio},
	AIFF:                 {"Audio Interchange File Format", "AIFF", "audio/x-aiff", "aif", KindAudio},
	MIDI:                 {"Musical Instrument Digital Interface", "MIDI", "audio/midi", "mid", KindAudio},
	MonkeysAudio:         {"Monkey's Audio", "APE", "audio/x-ape", "ape", KindAudio},
	WavPack:              {"WavPack", "WV", "audio/wavpack", "wv", KindAudio},
	Musepack:             {"Musepack", "MPC", "audio/x-musepack", "mpc", KindAudio},
	AppleItunesAudio:     {"Apple iTunes Audio", "M4A", "audio/x-m4a", "m4a", KindAudio},
	AppleItunesAudiobook: {"Apple iTunes Audiobook", "M4B", "audio/mp4", "m4b", KindAudio},

	MPEG4:             {"MPEG-4 Part 14", "MP4", "video/mp4", "mp4", KindVideo},
	MPEG4Audio:        {"MPEG-4 Part 14 Audio", "MP4", "audio/mp4", "mp4", KindAudio},
	MPEG4Video:        {"MPEG-4 Part 14 Video", "MP4", "video/mp4", "mp4", KindVideo},
	MPEG4Subtitles:    {"MPEG-4 Part 14 Subtitles", "MP4", "application/mp4", "mp4", KindSubtitle},
	AppleQuickTime:    {"Apple QuickTime", "MOV", "video/quicktime", "mov", KindVideo},
	AppleItunesVideo:  {"Apple iTunes Video", "M4V", "video/x-m4v", "m4v", KindVideo},
	ThreeGPP:          {"3rd Generation Partnership Project", "3GP", "video/3gpp", "3gp", KindVideo},
	ThreeGPP2:         {"3rd Generation Partnership Project 2", "3G2", "video/3gpp2", "3g2", KindVideo},
	FlashVideo:        {"Flash Video", "FLV", "video/x-flv", "flv", KindVideo},
	ShockwaveFlash:    {"Small Web Format", "SWF", "application/x-shockwave-flash", "swf", KindApplication},
	AVI:               {"Audio Video Interleave", "AVI", "video/avi", "avi", KindVideo},
	EBML:              {"Extensible Binary Meta Language", "EBML", "application/x-ebml", "ebml", KindApplication},
	MatroskaVideo:     {"Matroska Video", "MKV", "video/x-matroska", "mkv", KindVideo},
	Matroska3DVideo:   {"Matroska 3D Video", "MK3D", "video/x-matroska", "mk3d", KindVideo},
	MatroskaAudio:     {"Matroska Audio", "MKA", "audio/x-matroska", "mka", KindAudio},
	MatroskaSubtitles: {"Matroska Subtitles", "MKS", "video/x-matroska", "mks", KindSubtitle},
	WebM:              {"WebM", "", "video/webm", "webm", KindVideo},
	ASF:               {"Advanced Systems Format", "ASF", "application/vnd.ms-asf", "asf", KindVideo},
	WindowsMediaAudio: {"Windows Media Audio", "WMA", "audio/x-ms-wma", "wma", KindAudio},
	WindowsMediaVideo: {"Windows Media Video", "WMV", "video/x-ms-wmv", "wmv", KindVideo},
	RealMedia:         {"RealMedia", "RM", "application/vnd.rn-realmedia", "rm", KindVideo},
	RealAudio:         {"RealAudio", "RA", "audio/x-pn-realaudio", "ra", KindAudio},
	RealVideo:         {"RealVideo", "RV", "video/x-pn-realvideo", "rv", KindVideo},

	ELF:                {"Executable and Linkable Format", "ELF", "application/x-executable", "elf", KindExecutable},
	MachO:              {"Mach-O", "", "application/x-mach-binary", "mach", KindExecutable},
	MSDOSExecutable:    {"MS-DOS Executable", "EXE", "application/x-dosexec", "exe", KindExecutable},
	PortableExecutable: {"Portable Executable", "PE", "application/vnd.microsoft.portable-executable", "exe", KindExecutable},
	DynamicLinkLibrary: {"Dynamic Link Library", "DLL", "application/vnd.microsoft.portable-executable", "dll", KindExecutable},
	NewExecutable:      {"New Executable", "NE", "application/x-ms-ne-executable", "exe", KindExecutable},
	LinearExecutable:   {"Linear Executable", "LE", "application/x-dosexec", "exe", KindExecutable},
	JavaClass:          {"Java Class", "", "application/java-vm", "class", KindExecutable},
	WebAssembly:        {"WebAssembly Binary", "WASM", "application/wasm", "wasm", KindExecutable},
	DalvikExecutable:   {"Dalvik Executable", "DEX", "application/vnd.android.dex", "dex", KindExecutable},
	LuaBytecode:        {"Lua Bytecode", "", "application/x-lua-bytecode", "luac", KindExecutable},

	TrueType: {"TrueType", "TTF", "font/ttf", "ttf", KindFont},
	OpenType: {"OpenType", "OTF", "font/otf", "otf", KindFont},
	WOFF:     {"Web Open Font Format", "WOFF", "font/woff", "woff", KindFont},
	WOFF2:    {"Web Open Font Format 2", "WOFF2", "font/woff2", "woff2", KindFont},

	PEMCertificate: {"PEM Certificate", "CRT", "application/x-pem-file", "crt", KindCertificate},
	JavaKeyStore:   {"Java KeyStore", "JKS", "application/x-java-keystore", "jks", KindCertificate},

	SQLite3:                        {"SQLite 3", "SQLITE", "application/vnd.sqlite3", "sqlite", KindDatabase},
	VirtualHardDisk:                {"Microsoft Virtual Hard Disk", "VHD", "application/x-vhd", "vhd", KindDisk},
	VirtualHardDisk2:               {"Microsoft Virtual Hard Disk 2", "VHDX", "application/x-vhdx", "vhdx", KindDisk},
	NintendoEntertainmentSystemROM: {"Nintendo Entertainment System ROM", "NES", "application/x-nintendo-nes-rom", "nes", KindROM},
	WindowsShortcut:                {"Windows Shortcut", "LNK", "application/x-ms-shortcut", "lnk", KindApplication},
	PcapDump:                       {"PCAP Dump", "PCAP", "application/vnd.tcpdump.pcap", "pcap", KindApplication},
	PcapNextGeneration:             {"PCAP Next Generation Dump", "PCAPNG", "application/x-pcapng", "pcapng", KindApplication},
}

func (f Format) meta() metadata {
	if m, ok := table[f]; ok {
		return m
	}
	return fallback
}

// Name returns the full display name of the format.
func (f Format) Name() string {
	return f.meta().name
}

// ShortName returns the commonly used short name, or "" when the format has
// none.
func (f Format) ShortName() string {
	return f.meta().short
}

// MediaType returns the IANA media type of the format.
func (f Format) MediaType() string {
	return f.meta().media
}

// Extension returns the conventional file extension, without a leading dot.
func (f Format) Extension() string {
	return f.meta().ext
}

// Kind returns the broad category of the format.
func (f Format) Kind() Kind {
	return f.meta().kind
}
