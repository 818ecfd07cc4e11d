package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// ParseYAML reads a catalog document of the form `templates: [{id, name, url}]`
func ParseYAML(r io.Reader) ([]Template, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range doc.Templates {
		if doc.Templates[i].Name == "" {
			doc.Templates[i].Name = doc.Templates[i].ID
		}
	}
	if err := Validate(doc.Templates); err != nil {
		return nil, err
	}
	if doc.Templates == nil {
		doc.Templates = []Template{}
	}
	return doc.Templates, nil
}

// FileStore serves a catalog loaded once from a YAML file
type FileStore struct {
	templates []Template
}

func NewFileStore(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	templates, err := ParseYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FileStore{templates: templates}, nil
}

func (s *FileStore) List(context.Context) ([]Template, error) {
	out := make([]Template, len(s.templates))
	copy(out, s.templates)
	return out, nil
}
