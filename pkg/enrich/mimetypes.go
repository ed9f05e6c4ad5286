package enrich

import "strings"

// mimeTypeCategory is the static MIME-type → human category dictionary
// driving instantiation classification.
var mimeTypeCategory = map[string]string{
	"video/mp4":        "Video (MP4)",
	"video/mpeg":       "Video (MPEG)",
	"video/quicktime":  "Video (QuickTime)",
	"video/webm":       "Video (WebM)",
	"video/x-m4v":      "Video (M4V)",
	"video/x-ms-wmv":   "Video (WMV)",
	"video/x-msvideo":  "Video (AVI)",
	"video/x-matroska": "Video (MKV)",
	"video/3gpp":       "Video (3GP)",
	"video/x-flv":      "Video (FLV)",

	"audio/aac":            "Audio (AAC)",
	"audio/mp4":            "Audio (MP4)",
	"audio/mpeg":           "Audio (MP3)",
	"audio/ogg":            "Audio (OGG)",
	"audio/x-matroska":     "Audio (MKA)",
	"audio/x-pn-realaudio": "Audio (RealAudio)",
	"audio/x-wav":          "Audio (WAV)",
	"audio/wav":            "Audio (WAV)",
	"audio/flac":           "Audio (FLAC)",
	"audio/webm":           "Audio (WebM)",
	"audio/x-ms-wma":       "Audio (WMA)",
	"audio/x-aiff":         "Audio (AIFF)",

	"image/bmp":      "Image (BMP)",
	"image/gif":       "Image (GIF)",
	"image/jpeg":      "Image (JPEG)",
	"image/pcx":       "Image (PCX)",
	"image/pict":      "Image (PICT)",
	"image/png":       "Image (PNG)",
	"image/svg+xml":   "Vectorial Image (SVG)",
	"image/tiff":      "Image (TIFF)",
	"image/vnd.djvu":  "Image (DjVu)",
	"image/vnd.fpx":   "Image (FlashPix)",
	"image/webp":      "Image (WebP)",
	"image/x-cursor":  "Image (Cursor)",
	"image/x-icon":    "Image (Icon)",
	"image/x-jps":     "Image (JPS)",
	"image/heic":      "Image (HEIC)",
	"image/heif":      "Image (HEIF)",

	"application/msword": "Document (Word Legacy)",
	"application/vnd.ms-word.template.macroEnabledTemplate":                               "Template (Word with Macro)",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":              "Document (Word)",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template":              "Template (Word)",
	"application/vnd.oasis.opendocument.text":                                             "Document (OpenDocument)",
	"application/pdf": "Document (PDF)",
	"text/html":       "Document Web (HTML)",
	"text/plain":      "Document (Text)",
	"text/rtf":        "Document (RTF)",

	"application/vnd.ms-excel": "Spreadsheet (Excel Legacy)",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "Spreadsheet (Excel)",
	"application/vnd.oasis.opendocument.spreadsheet":                    "Spreadsheet (OpenDocument)",

	"application/vnd.ms-powerpoint": "Presentation (PowerPoint Legacy)",
	"application/vnd.ms-officetheme": "Theme (Office)",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "Presentation (PowerPoint)",
	"application/vnd.oasis.opendocument.presentation":                          "Presentation (OpenDocument)",

	"application/epub+zip":           "E-Book (EPUB)",
	"application/x-mobipocket-ebook": "E-Book (Mobipocket)",

	"application/zip":              "Archive (ZIP)",
	"application/x-7z-compressed":  "Archive (7Z)",
	"application/x-rar-compressed": "Archive (RAR)",
	"application/bzip2":            "Archive (BZip2)",
	"application/x-gzip":           "Archive (GZip)",
	"application/gzip":             "Archive (GZip)",
	"application/x-tar":            "Archive (TAR)",

	"font/woff":                 "Font (WOFF)",
	"font/woff2":                "Font (WOFF2)",
	"application/x-font-ttf":    "Font (TrueType)",
	"application/font-woff":     "Font (WOFF)",
	"application/font-woff2":    "Font (WOFF2)",

	"application/json":    "Data (JSON)",
	"application/xml":     "Data (XML)",
	"application/rdf+xml": "Semantic data (RDF)",
	"text/xml":            "Data (XML)",
	"text/csv":            "Table (CSV)",

	"application/vnd.iccprofile":   "Color Profile (ICC)",
	"application/x-iso9660-image":  "Disk Image (ISO)",

	"application/x-shockwave-flash": "Application (Flash)",
	"application/vnd.adobe.air-application-installer-package+zip": "Application (Adobe AIR)",
	"application/x-msdownload":                                    "Application (Windows)",
	"application/x-executable":                                    "Application (Eseguibile)",

	"application/x-bittorrent": "Torrent File (BitTorrent)",

	"application/postscript": "Print Document (PostScript)",

	"application/unknown":       "Unknown file",
	"application/ResEdit":       "Resource (ResEdit)",
	"application/octet-stream":  "Binary File (Generic)",

	"application/vnd.ms-outlook-pst": "Outlook Data File (PST)",
}

// unknownMimeCategory is emitted when no dictionary entry matches.
const unknownMimeCategory = "Unknown file"

// classifyMIME looks up a MIME type's human category, falling back to
// unknownMimeCategory.
func classifyMIME(mime string) string {
	if cat, ok := mimeTypeCategory[strings.ToLower(strings.TrimSpace(mime))]; ok {
		return cat
	}
	return unknownMimeCategory
}
