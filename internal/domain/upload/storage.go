package upload

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	DefaultUploadsDir = "./uploads"
	URLPrefix         = "/uploads"
)

// Storage derives public URLs and on-disk paths for stored files from their
// MIME type and generated filename. Apart from EnsureDirs it performs no I/O.
type Storage struct {
	root string
}

func NewStorage(root string) *Storage {
	if root == "" {
		root = DefaultUploadsDir
	}
	return &Storage{root: root}
}

// Root returns the uploads root directory.
func (s *Storage) Root() string { return s.root }

// EnsureDirs creates the uploads root and its type subdirectories.
// Idempotent; called once during process startup instead of relying on
// init-time side effects.
func (s *Storage) EnsureDirs() error {
	for _, sub := range Subdirs() {
		if err := os.MkdirAll(filepath.Join(s.root, sub), 0o755); err != nil {
			return fmt.Errorf("create upload directory %s: %w", sub, err)
		}
	}
	return nil
}

// FileInfo describes where a stored file lives and how to fetch it.
type FileInfo struct {
	URL      string `json:"url"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// ProcessUploadedFile maps a stored file to its servable URL and relative
// disk path using the same MIME routing as the parser. Pure; no I/O.
func (s *Storage) ProcessUploadedFile(f *StoredFile) FileInfo {
	rel := path.Join(SubdirFor(f.MimeType), f.Filename)
	return FileInfo{
		URL:      URLPrefix + "/" + rel,
		FilePath: rel,
		Filename: f.Filename,
		MimeType: f.MimeType,
		Size:     f.Size,
	}
}

// URL prefixes the public uploads path onto a stored relative path.
func (s *Storage) URL(relPath string) string {
	return URLPrefix + "/" + strings.TrimPrefix(filepath.ToSlash(relPath), "/")
}

// AbsolutePath resolves a stored relative path against the uploads root.
// The path is normalized and must stay inside the root; no existence check.
func (s *Storage) AbsolutePath(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, relPath)
	}
	return filepath.Join(s.root, cleaned), nil
}
