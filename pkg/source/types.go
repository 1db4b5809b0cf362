// types.go
package source

import (
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrHashMismatch indicates the downloaded archive does not match its pinned checksum
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrUnsafePath indicates an archive entry that would escape the destination
	ErrUnsafePath = errors.New("unsafe archive path")
)

// Config configures the fetcher
type Config struct {
	DownloadDir string        // Where archives are cached
	Timeout     time.Duration // Default: 5 minutes
	Logger      hclog.Logger  // Optional
}

// Fetcher downloads and unpacks source archives
type Fetcher struct {
	client *Client
	config *Config
	logger hclog.Logger
}

// Archive describes one source archive to fetch
type Archive struct {
	URL    string // Required
	SHA256 string // Optional: hex checksum to verify against
	Root   string // Optional: top-level directory inside the archive; detected when empty
}

// FetchOptions configures a single fetch
type FetchOptions struct {
	Dest        string // Required: directory the archive root is renamed to
	KeepArchive bool   // Keep the downloaded archive in DownloadDir
	Force       bool   // Re-download even if a cached archive exists
}
