// Package storage provides the key/value persistence behind the session and
// form drafts. Values are opaque strings.
package storage

import "errors"

// Sentinel errors
var (
	// ErrCorrupt is returned when the state file cannot be parsed.
	ErrCorrupt = errors.New("state file is corrupt")
)
