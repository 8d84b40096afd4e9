package treedoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// Document is one decoded query.
type Document struct {
	// File is the path the document was read from, if any.
	File string

	// Index is the position of the document within its YAML stream.
	Index int

	// Source is the traversal source name declared by the document.
	Source string

	Query    ast.Node
	Location ast.Location
}

// Name returns a short identifier for the document: the file base name,
// suffixed with the stream index when the file holds several documents.
func (d *Document) Name() string {
	base := d.File
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "query"
	}
	if d.Index > 0 {
		return fmt.Sprintf("%s-%d", base, d.Index)
	}
	return base
}

// Decoder decodes YAML (or JSON) tree documents into parse trees.
type Decoder struct {
	maxSize  int64
	maxDepth int
}

// NewDecoder creates a decoder with default limits.
func NewDecoder() *Decoder {
	return &Decoder{
		maxSize:  10 * 1024 * 1024, // 10MB
		maxDepth: 256,
	}
}

// WithMaxSize sets the maximum input size in bytes.
func (d *Decoder) WithMaxSize(size int64) *Decoder {
	d.maxSize = size
	return d
}

// WithMaxDepth sets the maximum node nesting depth.
func (d *Decoder) WithMaxDepth(depth int) *Decoder {
	d.maxDepth = depth
	return d
}

// DecodeFile reads and decodes every document in the file at path.
func (d *Decoder) DecodeFile(path string) ([]*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}
	if info.Size() > d.maxSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), d.maxSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}
	return d.Decode(data, path)
}

// Decode decodes every document in data. file is used in locations only.
func (d *Decoder) Decode(data []byte, file string) ([]*Document, error) {
	if int64(len(data)) > d.maxSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), d.maxSize),
			Location: ast.Location{File: file},
		}
	}

	var docs []*Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 0; ; i++ {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &Error{
				Type:       ErrorTypeSyntax,
				Message:    fmt.Sprintf("YAML parsing failed: %v", err),
				Location:   ast.Location{File: file},
				Suggestion: "check YAML syntax (indentation, colons, quotes)",
			}
		}

		b := &builder{file: file, maxDepth: d.maxDepth}
		doc, err := b.document(&root)
		if err != nil {
			return nil, err
		}
		doc.File = file
		doc.Index = i
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, &Error{
			Type:     ErrorTypeStructural,
			Message:  "no documents found",
			Location: ast.Location{File: file},
		}
	}
	return docs, nil
}

// DecodeOne decodes data that must hold exactly one document.
func (d *Decoder) DecodeOne(data []byte, file string) (*Document, error) {
	docs, err := d.Decode(data, file)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, &Error{
			Type:     ErrorTypeStructural,
			Message:  fmt.Sprintf("expected one document, found %d", len(docs)),
			Location: docs[1].Location,
		}
	}
	return docs[0], nil
}

// Decode decodes every document in data with a default decoder.
func Decode(data []byte, file string) ([]*Document, error) {
	return NewDecoder().Decode(data, file)
}

// DecodeFile decodes every document in the file at path with a default
// decoder.
func DecodeFile(path string) ([]*Document, error) {
	return NewDecoder().DecodeFile(path)
}
