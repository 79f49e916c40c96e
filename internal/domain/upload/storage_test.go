package upload

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdirFor_RoutesByMimePrefix(t *testing.T) {
	for mimeType := range AllowedMimeTypes {
		subdir := SubdirFor(mimeType)
		switch {
		case strings.HasPrefix(mimeType, "video/"):
			assert.Equal(t, SubdirVideos, subdir, mimeType)
		case strings.HasPrefix(mimeType, "audio/"):
			assert.Equal(t, SubdirAudio, subdir, mimeType)
		default:
			assert.Equal(t, SubdirImages, subdir, mimeType)
		}
	}

	// unrecognized types default to images
	assert.Equal(t, SubdirImages, SubdirFor("application/pdf"))
	assert.Equal(t, SubdirImages, SubdirFor(""))
}

func TestGenerateFilename_Format(t *testing.T) {
	cases := []struct {
		mimeType string
		original string
		pattern  string
	}{
		{"image/jpeg", "holiday photo.JPG", `^image-\d+-\d+\.JPG$`},
		{"video/mp4", "clip.mp4", `^video-\d+-\d+\.mp4$`},
		{"audio/mpeg", "song.mp3", `^audio-\d+-\d+\.mp3$`},
		{"application/pdf", "doc.pdf", `^file-\d+-\d+\.pdf$`},
		{"image/png", "noextension", `^image-\d+-\d+$`},
	}
	for _, tc := range cases {
		name := GenerateFilename(tc.mimeType, tc.original)
		assert.Regexp(t, regexp.MustCompile(tc.pattern), name)
	}
}

func TestGenerateFilename_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		name := GenerateFilename("image/png", "a.png")
		assert.False(t, seen[name], "duplicate generated name %s", name)
		seen[name] = true
	}
}

func TestProcessUploadedFile_URLEqualsPrefixPlusFilePath(t *testing.T) {
	s := NewStorage(t.TempDir())

	for mimeType := range AllowedMimeTypes {
		info := s.ProcessUploadedFile(&StoredFile{
			Filename: "x-123-456.bin",
			MimeType: mimeType,
			Size:     42,
		})
		assert.Equal(t, "/uploads/"+info.FilePath, info.URL, mimeType)
		assert.NotContains(t, info.URL, "//", mimeType)
		assert.Equal(t, SubdirFor(mimeType), filepath.Dir(info.FilePath), mimeType)
		assert.Equal(t, "x-123-456.bin", info.Filename)
		assert.Equal(t, int64(42), info.Size)
	}
}

func TestStorageURL(t *testing.T) {
	s := NewStorage("")
	assert.Equal(t, "/uploads/images/a.png", s.URL("images/a.png"))
	assert.Equal(t, "/uploads/images/a.png", s.URL("/images/a.png"))
}

func TestAbsolutePath_ContainsToRoot(t *testing.T) {
	root := t.TempDir()
	s := NewStorage(root)

	abs, err := s.AbsolutePath("images/a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "images", "a.png"), abs)

	// normalization keeps in-root paths usable
	abs, err = s.AbsolutePath("images/../videos/b.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "videos", "b.mp4"), abs)

	for _, bad := range []string{"../secret", "../../etc/passwd", "images/../../x", "/etc/passwd"} {
		_, err := s.AbsolutePath(bad)
		assert.ErrorIs(t, err, ErrPathOutsideRoot, bad)
	}
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s := NewStorage(root)

	require.NoError(t, s.EnsureDirs())
	require.NoError(t, s.EnsureDirs())

	for _, sub := range Subdirs() {
		assert.DirExists(t, filepath.Join(root, sub))
	}
}
