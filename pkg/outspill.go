// Package pkg provides supporting utilities for varmint.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// OutputSpill is an append-only on-disk store for captured process output.
// Scenario runs can produce megabytes of build and test output; the run
// keeps only small integer references in memory and spills the text itself
// to a gob-encoded temp file.
type OutputSpill interface {
	// Append stores one captured output and returns its reference.
	Append(output string) (int64, error)
	// Get reads back the output stored under ref.
	Get(ref int64) (string, error)
	// Len returns the number of stored outputs.
	Len() int64
	// Path returns the backing file path.
	Path() string
	// Close closes and removes the backing file.
	Close() error
}

type outputSpill struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  int64
}

// NewOutputSpill creates an OutputSpill backed by a temp file.
func NewOutputSpill() (OutputSpill, error) {
	file, err := os.CreateTemp("", "varmint-output-*.gob")
	if err != nil {
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created output spill", "path", file.Name())

	return &outputSpill{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

func (s *outputSpill) Append(output string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("failed to encode output: %w", err)
	}

	ref := s.length
	s.length++

	return ref, nil
}

func (s *outputSpill) Get(ref int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref < 0 || ref >= s.length {
		return "", fmt.Errorf("output ref %d out of bounds (length %d)", ref, s.length)
	}

	file, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var output string

	for i := int64(0); i <= ref; i++ {
		if err := decoder.Decode(&output); err != nil {
			return "", fmt.Errorf("failed to decode output at ref %d: %w", i, err)
		}
	}

	return output, nil
}

func (s *outputSpill) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

func (s *outputSpill) Path() string {
	return s.path
}

func (s *outputSpill) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	if err := s.file.Close(); err != nil {
		return err
	}

	s.file = nil

	return os.Remove(s.path)
}
