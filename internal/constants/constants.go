package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	SinkTimeout     = 5 * time.Second
	DialTimeout     = 5 * time.Second

	HubPublishTimeout = 2 * time.Second
)

const (
	DBMaxOpenConns    = 16
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	MatchStream       = "cricket.match.events"
	MatchStreamMaxLen = 10000
	HubBufferSize     = 1024
)
