package upload

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
)

const (
	SubdirImages = "images"
	SubdirVideos = "videos"
	SubdirAudio  = "audio"
)

// AllowedMimeTypes defines which file types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"image/webp":       true,
	"video/mp4":        true,
	"video/webm":       true,
	"video/ogg":        true,
	"video/quicktime":  true,
	"video/avi":        true,
	"video/x-msvideo":  true,
	"video/x-matroska": true,
	"video/mpeg":       true,
	"video/x-flv":      true,
	"audio/mpeg":       true,
	"audio/mp3":        true,
	"audio/wav":        true,
	"audio/ogg":        true,
}

// SubdirFor routes a MIME type to its storage subdirectory.
// Anything that is neither video nor audio lands in images.
func SubdirFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return SubdirVideos
	case strings.HasPrefix(mimeType, "audio/"):
		return SubdirAudio
	default:
		return SubdirImages
	}
}

// Subdirs lists every storage subdirectory under the uploads root.
func Subdirs() []string {
	return []string{SubdirImages, SubdirVideos, SubdirAudio}
}

func filenamePrefix(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	default:
		return "file"
	}
}

// GenerateFilename builds a server-assigned name for a stored file:
// {prefix}-{unixMillis}-{random}{originalExt}. The timestamp plus random
// suffix keeps names unique within the process lifetime, so files are never
// overwritten and no on-disk uniqueness check is needed.
func GenerateFilename(mimeType, originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s-%d-%d%s", filenamePrefix(mimeType), time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}

func normalizeMimeType(contentType string) string {
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
