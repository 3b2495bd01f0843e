// Package mediatypes classifies course files by extension.
//
// It is a dependency-free leaf imported by the scanner, the HTTP layer and
// the conversion pipeline:
//
//	ext := strings.ToLower(filepath.Ext(name))
//	switch mediatypes.GetFileType(ext) {
//	case mediatypes.FileTypeVideo:
//	    // lesson
//	case mediatypes.FileTypeSubtitle:
//	    // linked to a lesson by stem
//	case mediatypes.FileTypeImage, mediatypes.FileTypeDocument:
//	    // chapter resource, tagged with GetDocumentType
//	}
//
// GetMimeType supplies the Content-Type used when streaming files.
package mediatypes
