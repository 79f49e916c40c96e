package upload

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMemoryBufferLimit is the per-file size above which content stays on
// disk instead of being loaded into memory.
const DefaultMemoryBufferLimit = 10 << 20 // 10 MiB

const formContextKey = "upload.form"

// Middleware intercepts multipart/form-data requests, runs the parser
// against all fields, and exposes the result as a typed Form on the request
// context. Non-multipart requests pass through untouched, so handlers that
// bind JSON bodies are unaffected. Every parser or buffering failure is
// forwarded through the gin error channel and the request aborted; the
// middleware never writes a response itself — the error-handling middleware
// renders it.
func Middleware(parser *Parser, memoryBufferLimit int64) gin.HandlerFunc {
	if memoryBufferLimit <= 0 {
		memoryBufferLimit = DefaultMemoryBufferLimit
	}
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.Next()
			return
		}

		files, values, err := parser.Parse(c.Request)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		form, err := buildForm(files, values, memoryBufferLimit)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(formContextKey, form)
		c.Next()
	}
}

// FormFromContext returns the parsed multipart form, if the request carried one.
func FormFromContext(c *gin.Context) (*Form, bool) {
	v, ok := c.Get(formContextKey)
	if !ok {
		return nil, false
	}
	form, ok := v.(*Form)
	return form, ok
}

// buildForm groups stored files by field preserving arrival order. A field
// with one file gets a single FormFile, a field with several gets an ordered
// slice. A field that carried a file loses any text value submitted under
// the same name — the key is reserved for the file.
func buildForm(files []*StoredFile, values map[string][]string, bufferLimit int64) (*Form, error) {
	fields := make(map[string]FieldValue, len(values))
	for name, vals := range values {
		fields[name] = FieldValue{Values: vals}
	}

	grouped := make(map[string][]*FormFile)
	var order []string
	for _, sf := range files {
		ff, err := newFormFile(sf, bufferLimit)
		if err != nil {
			return nil, err
		}
		if _, seen := grouped[sf.FieldName]; !seen {
			order = append(order, sf.FieldName)
		}
		grouped[sf.FieldName] = append(grouped[sf.FieldName], ff)
	}

	for _, name := range order {
		group := grouped[name]
		if len(group) == 1 {
			fields[name] = FieldValue{File: group[0]}
		} else {
			fields[name] = FieldValue{Files: group}
		}
	}

	return &Form{Fields: fields, Stored: files}, nil
}

// newFormFile builds the handler-facing view of a stored file. Files above
// the buffer limit are not read back from disk; their size is still the true
// on-disk size.
func newFormFile(sf *StoredFile, bufferLimit int64) (*FormFile, error) {
	ff := &FormFile{
		Name:     sf.Filename,
		MimeType: sf.MimeType,
		Size:     sf.Size,
		path:     sf.Path,
	}
	if sf.Size > bufferLimit {
		return ff, nil
	}

	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return nil, fmt.Errorf("buffer %s: %w", sf.Filename, err)
	}
	ff.content = data
	return ff, nil
}
