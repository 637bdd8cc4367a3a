package config

import "time"

// Render defaults.
const (
	DefaultQuote  = `"`
	DefaultIndent = 4
)

// Display defaults.
const (
	DefaultMaxDepth = 3
)

// Rewrite defaults.
const (
	DefaultMaxRounds = 0
)

// Host defaults.
const (
	DefaultPython        = "python3"
	DefaultHostTimeout   = 30 * time.Second
	DefaultMaxSourceSize = "4MB"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
