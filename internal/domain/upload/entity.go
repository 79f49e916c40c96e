package upload

import (
	"bytes"
	"io"
	"os"
	"time"
)

// StoredFile is one multipart file part that the parser has fully received
// and persisted to disk. The disk file outlives the request; this struct
// does not.
type StoredFile struct {
	FieldName    string // form field the file arrived under
	Filename     string // server-generated, collision-resistant
	OriginalName string // client-supplied, untrusted
	MimeType     string
	Size         int64
	Path         string // absolute on-disk path
}

// FormFile is the in-memory view of a stored file handed to handlers.
// Name is always the generated filename, never the client-supplied one —
// downstream code must resolve stored files through it. Files above the
// memory buffer limit carry no content; Open still reads them from disk.
type FormFile struct {
	Name     string
	MimeType string
	Size     int64

	path    string
	content []byte
}

// Buffered reports whether the file content was loaded into memory.
func (f *FormFile) Buffered() bool { return f.content != nil }

// Bytes returns the buffered content, or nil for an unbuffered file.
func (f *FormFile) Bytes() []byte { return f.content }

// Open returns a reader over the file content. Buffered files are served
// from memory; larger files are opened from disk.
func (f *FormFile) Open() (io.ReadCloser, error) {
	if f.content != nil {
		return io.NopCloser(bytes.NewReader(f.content)), nil
	}
	return os.Open(f.path)
}

// FieldValue is a tagged form value: a field carries either one file,
// several files, or plain text — never more than one of the three.
type FieldValue struct {
	File   *FormFile   // set when the field carried exactly one file
	Files  []*FormFile // set when the field carried more than one file, in arrival order
	Values []string    // plain text values as submitted
}

// Form is a parsed multipart body. Fields maps field names to their typed
// values; Stored lists every file part in arrival order across all fields.
type Form struct {
	Fields map[string]FieldValue
	Stored []*StoredFile
}

// File returns the single file at a field, if the field carried exactly one.
func (f *Form) File(name string) (*FormFile, bool) {
	v, ok := f.Fields[name]
	if !ok || v.File == nil {
		return nil, false
	}
	return v.File, true
}

// FileList returns every file at a field regardless of count.
func (f *Form) FileList(name string) []*FormFile {
	v := f.Fields[name]
	if v.File != nil {
		return []*FormFile{v.File}
	}
	return v.Files
}

// StoredAt returns the stored file parts for a field in arrival order.
func (f *Form) StoredAt(name string) []*StoredFile {
	var out []*StoredFile
	for _, sf := range f.Stored {
		if sf.FieldName == name {
			out = append(out, sf)
		}
	}
	return out
}

// Text returns the first plain text value at a field.
func (f *Form) Text(name string) (string, bool) {
	v, ok := f.Fields[name]
	if !ok || len(v.Values) == 0 {
		return "", false
	}
	return v.Values[0], true
}

// Attachment records a stored file in the database.
// It is a shared infrastructure entity — any domain can reference an attachment by its ID.
type Attachment struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	OwnerID      int64     `gorm:"column:owner_id;index" json:"owner_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	Filename     string    `gorm:"column:filename" json:"filename"`
	FilePath     string    `gorm:"column:file_path" json:"-"`  // relative disk path
	FileURL      string    `gorm:"column:file_url" json:"url"` // public HTTP URL
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }
