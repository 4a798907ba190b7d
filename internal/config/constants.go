package config

import "time"

// Application constants for the bike-share dashboard
const (
	// Application Info
	AppName    = "bikeshare-dashboard"
	AppTitle   = "Capital Bikeshare Rental Dashboard"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (BIKESHARE_SERVER_PORT, ...)
	EnvPrefix = "BIKESHARE"

	// Server
	DefaultPort = 8080

	// Rate Limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// WebSocket
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// Files
	DefaultDatasetPath   = "data/clean_bikeshare_hour.csv"
	DefaultExportDir     = "exports"
	DefaultLogsDir       = "logs"
	DefaultLogFile       = "dashboard.log"
	DefaultWorkbookName  = "dashboard.xlsx"
	DefaultWatchDebounce = 500 * time.Millisecond

	// DateLayout is the layout of the dteday column and of date query parameters
	DateLayout = "2006-01-02"
)
