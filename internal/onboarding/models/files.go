package models

import "strings"

// FileRef points at an uploaded blob. A nil *FileRef is an empty slot; the
// form only ever records presence and metadata, never file content.
type FileRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Extension returns the lower-cased file extension including the dot.
func (f *FileRef) Extension() string {
	if f == nil {
		return ""
	}
	idx := strings.LastIndexByte(f.Name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(f.Name[idx:])
}

// Present reports whether the slot holds a file.
func Present(f *FileRef) bool {
	return f != nil
}

func cloneFile(f *FileRef) *FileRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
