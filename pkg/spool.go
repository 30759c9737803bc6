// Package pkg provides generic utilities for solmut.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Spool is an append-only disk spool for items of type T. Large mutation
// campaigns stream their outcomes through a Spool so reporting never has to
// hold every record in memory.
type Spool[T any] struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *gob.Encoder
	length  uint64
}

// NewSpool creates a spool backed by a fresh temp file.
func NewSpool[T any]() (*Spool[T], error) {
	file, err := os.CreateTemp("", "solmut-spool-*.gob")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}

	return &Spool[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Len returns the number of appended items.
func (s *Spool[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Path returns the backing file path.
func (s *Spool[T]) Path() string {
	return s.path
}

// Append encodes one item at the end of the spool.
func (s *Spool[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode spool item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode spool item: %w", err)
	}

	s.length++

	return nil
}

// Range decodes every item in append order and invokes f for each. Iteration
// stops at the first error f returns.
func (s *Spool[T]) Range(f func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open spool: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := gob.NewDecoder(file)

	for index := uint64(0); index < s.length; index++ {
		var item T

		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("failed to decode spool item %d: %w", index, err)
		}

		if err := f(index, item); err != nil {
			return err
		}
	}

	return nil
}

// Close closes and removes the backing file.
func (s *Spool[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	if err := s.file.Close(); err != nil {
		slog.Error("failed to close spool", "path", s.path, "error", err)
		return err
	}

	s.file = nil

	return os.Remove(s.path)
}
