package mediatypes

// FileType is the class a course file falls into by extension.
type FileType string

const (
	// FileTypeVideo represents a playable lesson video.
	FileTypeVideo FileType = "video"
	// FileTypeSubtitle represents a subtitle track.
	FileTypeSubtitle FileType = "subtitle"
	// FileTypeImage represents an image attached to a chapter.
	FileTypeImage FileType = "image"
	// FileTypeDocument represents a non-image course resource.
	FileTypeDocument FileType = "document"
	// FileTypeOther represents a file the player ignores.
	FileTypeOther FileType = "other"
)

// DocumentType is the tag clients use to pick an icon or viewer.
type DocumentType string

const (
	DocumentPDF   DocumentType = "pdf"
	DocumentImage DocumentType = "image"
	DocumentText  DocumentType = "text"
	DocumentJSON  DocumentType = "json"
	DocumentZip   DocumentType = "zip"
	DocumentHTML  DocumentType = "html"
	DocumentDocx  DocumentType = "docx"
	DocumentOther DocumentType = "other"
)

// VideoExtensions maps file extensions to whether they are lesson videos.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
	".m4v":  true,
}

// SubtitleExtensions maps file extensions to whether they are subtitles.
var SubtitleExtensions = map[string]bool{
	".srt": true,
	".vtt": true,
}

// ImageExtensions maps file extensions to whether they are images.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".svg":  true,
}

// DocumentExtensions maps non-image resource extensions to their tag.
var DocumentExtensions = map[string]DocumentType{
	".pdf":  DocumentPDF,
	".txt":  DocumentText,
	".md":   DocumentText,
	".json": DocumentJSON,
	".zip":  DocumentZip,
	".rar":  DocumentZip,
	".7z":   DocumentZip,
	".html": DocumentHTML,
	".htm":  DocumentHTML,
	".docx": DocumentDocx,
}

// MP4Extensions are the containers that need no remux for browser playback.
var MP4Extensions = map[string]bool{
	".mp4": true,
	".m4v": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Videos
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",

	// Subtitles
	".srt": "application/x-subrip",
	".vtt": "text/vtt",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",

	// Documents
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".json": "application/json",
	".zip":  "application/zip",
	".rar":  "application/vnd.rar",
	".7z":   "application/x-7z-compressed",
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp4").
func GetFileType(ext string) FileType {
	switch {
	case VideoExtensions[ext]:
		return FileTypeVideo
	case SubtitleExtensions[ext]:
		return FileTypeSubtitle
	case ImageExtensions[ext]:
		return FileTypeImage
	}
	if _, ok := DocumentExtensions[ext]; ok {
		return FileTypeDocument
	}
	return FileTypeOther
}

// GetDocumentType returns the document tag for an image or document
// extension, and DocumentOther for anything else.
func GetDocumentType(ext string) DocumentType {
	if ImageExtensions[ext] {
		return DocumentImage
	}
	if t, ok := DocumentExtensions[ext]; ok {
		return t
	}
	return DocumentOther
}

// IsResource reports whether a file with ext is listed as a chapter
// resource (images count as resources).
func IsResource(ext string) bool {
	t := GetFileType(ext)
	return t == FileTypeImage || t == FileTypeDocument
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
