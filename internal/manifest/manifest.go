// Package manifest records what went into an assembled document.
//
// A manifest lists every fragment and every inlined file with its SHA-256, in
// the order they were consumed, plus the hash of the output. Order is part of
// the combined hash because fragment order defines the document.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Entry kinds.
const (
	KindFragment = "fragment"
	KindInclude  = "include"
)

// Manifest describes one assembled document.
type Manifest struct {
	Version    string  `json:"version"`
	Output     string  `json:"output"`
	OutputHash string  `json:"output_hash"`
	Entries    []Entry `json:"entries"`
	Hash       string  `json:"hash"`
}

// Entry is one input file.
type Entry struct {
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	Fragment    string `json:"fragment,omitempty"`
	Rule        string `json:"rule,omitempty"`
	ContentHash string `json:"content_hash"`
	Size        int    `json:"size"`
}

// Input is a file to be recorded. Paths are made relative to the manifest root.
type Input struct {
	Kind     string
	Path     string
	Fragment string
	Rule     string
	Content  []byte
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// New builds a manifest. root anchors the recorded paths; version names the tool build.
func New(root, version, output string, document []byte, inputs []Input) *Manifest {
	m := &Manifest{
		Version:    version,
		Output:     relTo(root, output),
		OutputHash: Digest(document),
		Entries:    make([]Entry, 0, len(inputs)),
	}
	for _, in := range inputs {
		e := Entry{
			Kind:        in.Kind,
			Path:        relTo(root, in.Path),
			Rule:        in.Rule,
			ContentHash: Digest(in.Content),
			Size:        len(in.Content),
		}
		if in.Fragment != "" {
			e.Fragment = relTo(root, in.Fragment)
		}
		m.Entries = append(m.Entries, e)
	}
	m.Hash = m.computeHash()
	return m
}

// computeHash covers every entry in order and the output hash.
func (m *Manifest) computeHash() string {
	h := sha256.New()
	for _, e := range m.Entries {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s\n", e.Kind, e.Path, e.Fragment, e.Rule, e.ContentHash)
	}
	fmt.Fprintf(h, "output|%s|%s\n", m.Output, m.OutputHash)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the combined hash and reports whether it matches.
func (m *Manifest) Verify() bool {
	return m.Hash == m.computeHash()
}

// ToJSON serializes the manifest to JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest atomically at path.
func (m *Manifest) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(append(data, '\n'))); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// FilterByKind returns the entries of one kind.
func (m *Manifest) FilterByKind(kind string) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func relTo(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
