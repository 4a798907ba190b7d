package contracts

// Versions of the public contracts, reported by /api/version
const (
	// DataFormatVersion is the version of the exported CSV and workbook layout
	DataFormatVersion = "v1"

	// APIVersion is the version of the HTTP and WebSocket API
	APIVersion = "v1"
)

// GitCommit is set during build using ldflags
var GitCommit = "unknown"
