package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const (
	DefaultMaxFileSize = 500 << 20 // 500 MiB per file
	DefaultMaxFiles    = 10
)

// Limits bound a single multipart request.
type Limits struct {
	MaxFileSize int64 // bytes per file, boundary inclusive
	MaxFiles    int   // file parts per request
}

// Parser validates incoming multipart parts and persists file parts to disk
// under the uploads root before any business logic runs. Violations fail
// fast; parts already flushed to disk are left in place (names are unique,
// so orphans never collide with later uploads).
type Parser struct {
	storage *Storage
	limits  Limits
}

func NewParser(storage *Storage, limits Limits) *Parser {
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = DefaultMaxFileSize
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	return &Parser{storage: storage, limits: limits}
}

// Parse streams every part of a multipart request. File parts are written to
// their MIME-routed subdirectory under a generated name; plain fields are
// collected as text. Files come back in arrival order.
func (p *Parser) Parse(r *http.Request) ([]*StoredFile, map[string][]string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, fmt.Errorf("open multipart reader: %w", err)
	}

	var files []*StoredFile
	values := make(map[string][]string)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read multipart part: %w", err)
		}

		if part.FileName() == "" {
			data, err := io.ReadAll(part)
			if err != nil {
				return nil, nil, fmt.Errorf("read field %q: %w", part.FormName(), err)
			}
			values[part.FormName()] = append(values[part.FormName()], string(data))
			continue
		}

		if len(files) >= p.limits.MaxFiles {
			return nil, nil, ErrTooManyFiles
		}
		stored, err := p.savePart(part)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, stored)
	}

	return files, values, nil
}

func (p *Parser) savePart(part *multipart.Part) (*StoredFile, error) {
	mimeType := normalizeMimeType(part.Header.Get("Content-Type"))
	if !AllowedMimeTypes[mimeType] {
		return nil, &UnsupportedMimeTypeError{MimeType: mimeType}
	}

	filename := GenerateFilename(mimeType, part.FileName())
	absPath := filepath.Join(p.storage.Root(), SubdirFor(mimeType), filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", filename, err)
	}

	// Copy at most limit+1 bytes so a file of exactly the limit is
	// accepted and one byte over is not.
	written, copyErr := io.Copy(dst, io.LimitReader(part, p.limits.MaxFileSize+1))
	if err := dst.Close(); err != nil && copyErr == nil {
		copyErr = err
	}
	if copyErr != nil {
		_ = os.Remove(absPath) // rollback partial file on write error
		return nil, fmt.Errorf("write %s: %w", filename, copyErr)
	}
	if written > p.limits.MaxFileSize {
		_ = os.Remove(absPath) // rollback: a rejected part is not a flushed part
		return nil, ErrFileTooLarge
	}

	return &StoredFile{
		FieldName:    part.FormName(),
		Filename:     filename,
		OriginalName: part.FileName(),
		MimeType:     mimeType,
		Size:         written,
		Path:         absPath,
	}, nil
}
