package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Built-in defaults, the last layer of configuration precedence.
const (
	DefaultAssistantCommand        = "claude"
	DefaultAssistantTimeoutSeconds = 60
	DefaultGracePeriodSeconds      = 2
	DefaultCaptureTimeoutSeconds   = 10
	DefaultSummarizeThreshold      = 50
	DefaultMaxSpokenLines          = 10
	DefaultSpeechRate              = 180
	DefaultSpeechVolume            = 80
	MaxSpeechVolume                = 100
	DefaultLogLevel                = "warn"
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds short probes such as `--version` checks.
	DefaultCommandTimeout = 2 * time.Second
)

// Process exit codes for the command-line surface.
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitConfigError       = 2
	ExitDependencyMissing = 3
	ExitTimeout           = 124
)
