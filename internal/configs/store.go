package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store gives transactional access to the config file.
type Store interface {
	// View loads the current content and passes it to fn. Changes are discarded.
	View(fn func(doc *Document) error) error

	// Update loads the current content, passes it to fn and rewrites the whole
	// backing file if fn returned nil and changed the document.
	Update(fn func(doc *Document) error) error
}

// Document is the in-memory view of the config file for one transaction.
type Document struct {
	lines   []string
	changed bool
}

// NewDocument splits content into lines. Blank lines are dropped.
func NewDocument(content []byte) *Document {
	doc := &Document{}
	doc.load(content)
	return doc
}

func (d *Document) load(content []byte) {
	d.lines = d.lines[:0]
	for _, raw := range strings.Split(string(content), "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d.lines = append(d.lines, raw)
	}
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// GetLine returns the first line for keyword.
func (d *Document) GetLine(keyword string) (string, bool) {
	for _, l := range d.lines {
		if HasKeyword(l, keyword) {
			return l, true
		}
	}
	return "", false
}

// KeyExists reports whether any line uses keyword.
func (d *Document) KeyExists(keyword string) bool {
	_, ok := d.GetLine(keyword)
	return ok
}

// SetLine appends line. Existing lines with the same keyword are kept.
func (d *Document) SetLine(line string) {
	d.lines = append(d.lines, line)
	d.changed = true
}

// ReplaceKey drops every line for keyword and appends line.
func (d *Document) ReplaceKey(keyword, line string) {
	d.RemoveKey(keyword)
	d.SetLine(line)
}

// RemoveKey drops every line for keyword and returns how many were removed.
// The remaining lines are committed through OverwriteContent.
func (d *Document) RemoveKey(keyword string) int {
	var kept []string
	removed := 0
	for _, l := range d.lines {
		if HasKeyword(l, keyword) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed == 0 {
		return 0
	}
	d.OverwriteContent([]byte(strings.Join(kept, "\n")))
	return removed
}

// OverwriteContent replaces the whole document with content.
func (d *Document) OverwriteContent(content []byte) {
	d.load(content)
	d.changed = true
}

// Bytes renders the document, one line per record with a trailing newline.
func (d *Document) Bytes() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(d.lines, "\n") + "\n")
}

// Changed reports whether the document was modified.
func (d *Document) Changed() bool {
	return d.changed
}

// FilterMapLines applies f to every line, keeping the values for which f
// returned true. The first error aborts the walk.
func FilterMapLines[T any](d *Document, f func(line string) (T, bool, error)) ([]T, error) {
	var out []T
	for _, l := range d.lines {
		v, keep, err := f(l)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, v)
		}
	}
	return out, nil
}

// FileStore is a Store backed by a text file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path. The file is created on first access.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) open() (*Document, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening config file %s: %w", s.path, err)
	}
	f.Close()

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", s.path, err)
	}
	return NewDocument(content), nil
}

func (s *FileStore) View(fn func(doc *Document) error) error {
	doc, err := s.open()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *FileStore) Update(fn func(doc *Document) error) error {
	doc, err := s.open()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if !doc.Changed() {
		return nil
	}
	return s.overwrite(doc.Bytes())
}

// overwrite truncates the file and writes content.
func (s *FileStore) overwrite(content []byte) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file %s for writing: %w", s.path, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("writing config file %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing config file %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mu      sync.Mutex
	content []byte
}

// NewMemoryStore returns a store holding content.
func NewMemoryStore(content string) *MemoryStore {
	return &MemoryStore{content: []byte(content)}
}

// Content returns the current content.
func (s *MemoryStore) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.content)
}

func (s *MemoryStore) View(fn func(doc *Document) error) error {
	s.mu.Lock()
	doc := NewDocument(s.content)
	s.mu.Unlock()
	return fn(doc)
}

func (s *MemoryStore) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := NewDocument(s.content)
	if err := fn(doc); err != nil {
		return err
	}
	if doc.Changed() {
		s.content = doc.Bytes()
	}
	return nil
}
