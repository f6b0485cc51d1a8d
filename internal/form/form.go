package form

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// File is a file input value. Content is opened lazily so a snapshot taken
// at submit time stays cheap.
type File struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Field is one named form value. Exactly one of Value or File is meaningful.
type Field struct {
	Name  string
	Value string
	File  *File
}

// Data holds the fields of a form in document order.
type Data struct {
	Fields []Field
}

// Set replaces the first field called name with a text value and drops any
// later ones, keeping its position. It appends when there is none.
func (d *Data) Set(name, value string) {
	d.set(Field{Name: name, Value: value})
}

// SetFile is Set for a file value.
func (d *Data) SetFile(name string, f *File) {
	d.set(Field{Name: name, File: f})
}

func (d *Data) set(field Field) {
	kept := d.Fields[:0]
	replaced := false
	for _, f := range d.Fields {
		if f.Name != field.Name {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			kept = append(kept, field)
			replaced = true
		}
	}
	if !replaced {
		kept = append(kept, field)
	}
	d.Fields = kept
}

// Add appends a text value without touching existing fields of the same name.
func (d *Data) Add(name, value string) {
	d.Fields = append(d.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file field.
func (d *Data) AddFile(name string, f *File) {
	d.Fields = append(d.Fields, Field{Name: name, File: f})
}

// Get returns the first text value for name.
func (d Data) Get(name string) string {
	for _, f := range d.Fields {
		if f.Name == name && f.File == nil {
			return f.Value
		}
	}
	return ""
}

// Clone returns a copy whose field slice can be modified independently.
func (d Data) Clone() Data {
	fields := make([]Field, len(d.Fields))
	copy(fields, d.Fields)
	return Data{Fields: fields}
}

// BytesFile wraps in-memory content as a File.
func BytesFile(name, contentType string, content []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// DiskFile references a file on disk. The content type is left empty and
// guessed at encode time, the same way a browser does for a picked file.
func DiskFile(path string) *File {
	return &File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Encoded is a ready-to-send multipart body.
type Encoded struct {
	Body        []byte
	ContentType string
}

// Encode writes d as multipart/form-data, field names and values unchanged,
// file contents copied as-is.
func Encode(d Data) (*Encoded, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range d.Fields {
		if f.File == nil {
			if err := mw.WriteField(f.Name, f.Value); err != nil {
				return nil, fmt.Errorf("write field %q: %w", f.Name, err)
			}
			continue
		}
		if err := writeFile(mw, f.Name, f.File); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return &Encoded{Body: buf.Bytes(), ContentType: mw.FormDataContentType()}, nil
}

func writeFile(mw *multipart.Writer, name string, f *File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(name), escapeQuotes(f.Name)))

	var content []byte
	if f.Open != nil {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open file %q: %w", f.Name, err)
		}
		content, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Name, err)
		}
	}

	ct := f.ContentType
	if ct == "" {
		ct = guessContentType(f.Name, content)
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %q: %w", name, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write file %q: %w", f.Name, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
