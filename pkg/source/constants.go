// constants.go
package source

import "time"

const (
	// DefaultTimeout bounds a whole archive download
	DefaultTimeout = 5 * time.Minute

	// DefaultUserAgent is sent with every request
	DefaultUserAgent = "lwsrecipe/1.0"
)

// Compression is the compression wrapped around a tar archive
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionXZ   Compression = "xz"
	CompressionZstd Compression = "zstd"
)
