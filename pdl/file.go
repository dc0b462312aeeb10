package pdl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is one loaded PDL document: its own declared name, the names of the
// documents it imports, and its raw body entries (each either a "component"
// or a "graph" entry).
type File struct {
	Name    string
	Imports []string
	Body    []map[string]interface{}

	source string
}

type fileDocument struct {
	Name   string                   `yaml:"name"`
	Import []string                 `yaml:"import"`
	Body   []map[string]interface{} `yaml:"body"`
}

// NewFile loads a PDL document from the file at path.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %v: %w", path, err, ErrBadInput)
	}
	return newFile(path, data)
}

// NewFileFromString loads a PDL document from literal text. label identifies
// the source in error messages; it is not the document's declared name,
// which is always read from the document's own "name" field.
func NewFileFromString(label, contents string) (*File, error) {
	return newFile(label, []byte(contents))
}

func newFile(source string, data []byte) (*File, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %q: %v: %w", source, err, ErrBadInput)
	}
	if doc.Name == "" {
		return nil, badInput("document %q declares no name", source)
	}
	return &File{Name: doc.Name, Imports: doc.Import, Body: doc.Body, source: source}, nil
}
