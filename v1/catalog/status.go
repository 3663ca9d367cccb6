package catalog

import (
	"database/sql/driver"
	"fmt"
)

// VersionStatus is the lifecycle state of a catalog version.
//
//	PROCESSING -> ACTIVE | FAILED
//	ACTIVE     -> ARCHIVED (only when a newer version becomes ACTIVE)
//
// ARCHIVED and FAILED are terminal.
type VersionStatus int

const (
	StatusProcessing VersionStatus = iota + 1
	StatusActive
	StatusArchived
	StatusFailed
)

// String returns the persisted representation.
func (s VersionStatus) String() string {
	switch s {
	case StatusProcessing:
		return "PROCESSING"
	case StatusActive:
		return "ACTIVE"
	case StatusArchived:
		return "ARCHIVED"
	case StatusFailed:
		return "FAILED"
	}
	return fmt.Sprintf("VersionStatus(%d)", int(s))
}

// ParseVersionStatus is the inverse of String.
func ParseVersionStatus(v string) (VersionStatus, error) {
	switch v {
	case "PROCESSING":
		return StatusProcessing, nil
	case "ACTIVE":
		return StatusActive, nil
	case "ARCHIVED":
		return StatusArchived, nil
	case "FAILED":
		return StatusFailed, nil
	}
	return 0, fmt.Errorf("unknown catalog version status %q", v)
}

// Terminal reports whether no further transition is possible.
func (s VersionStatus) Terminal() bool {
	switch s {
	case StatusArchived, StatusFailed:
		return true
	case StatusProcessing, StatusActive:
		return false
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
func (s VersionStatus) CanTransitionTo(next VersionStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusActive || next == StatusFailed
	case StatusActive:
		return next == StatusArchived
	case StatusArchived, StatusFailed:
		return false
	}
	return false
}

// Value implements driver.Valuer so gorm stores the status as text.
func (s VersionStatus) Value() (driver.Value, error) {
	if s < StatusProcessing || s > StatusFailed {
		return nil, fmt.Errorf("invalid catalog version status %d", int(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *VersionStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into VersionStatus", src)
	}
	parsed, err := ParseVersionStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText keeps JSON responses in the persisted form.
func (s VersionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
