// Package storage defines the vault file-system abstraction for word notes
// and vocabulary pages.
package storage

import "time"

// FileInfo is lightweight metadata for one Markdown file in the vault.
type FileInfo struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// List walks dir and returns metadata for every .md file under it.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating directories as
	// needed.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
