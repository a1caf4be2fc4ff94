package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"overcooked-catalog/catalog-svc/internal/domain"
)

// FileSource reads a catalog fixture from a YAML file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(_ context.Context) (*domain.Fixture, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", s.Path, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture, rejecting unknown keys. An empty
// document yields an empty fixture.
func ParseFixture(data []byte) (*domain.Fixture, error) {
	var f domain.Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}
