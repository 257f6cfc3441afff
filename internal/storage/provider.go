// Package storage defines the data directory abstraction used for file-backed
// sources such as the inspection ledger.
package storage

// Provider is the interface for data directory file operations.
// All paths are relative to the data directory root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Abs resolves path to an absolute file system path inside the root.
	Abs(path string) (string, error)
}
