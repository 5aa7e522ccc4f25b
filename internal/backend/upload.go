package backend

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// MaxUploadSize is the largest clip the service accepts
const MaxUploadSize = 100 * 1024 * 1024

var (
	// ErrFileTooLarge is returned for clips above MaxUploadSize
	ErrFileTooLarge = errors.New("file size exceeds 100MB limit")
	// ErrUnsupportedType is returned for anything but MP4, MOV, WebM and AVI
	ErrUnsupportedType = errors.New("invalid file type. Please upload MP4, MOV, WebM, or AVI video")
)

var uploadTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".qt":   "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/avi",
}

// ValidateUpload checks a clip before anything is sent and returns its MIME type
func ValidateUpload(name string, size int64) (string, error) {
	contentType, ok := uploadTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedType)
	}
	if size > MaxUploadSize {
		return "", fmt.Errorf("%s: %w", filepath.Base(name), ErrFileTooLarge)
	}
	return contentType, nil
}

// UploadExtensions returns the accepted file extensions, sorted
func UploadExtensions() []string {
	exts := make([]string, 0, len(uploadTypes))
	for ext := range uploadTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
