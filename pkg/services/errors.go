package services

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactUnavailable means the classifier artifact is missing or unreadable.
	ErrArtifactUnavailable = errors.New("classifier artifact unavailable")
	// ErrArtifactIncompatible means the artifact loaded but cannot score the adapter's vectors.
	ErrArtifactIncompatible = errors.New("classifier artifact incompatible")
)

// Fallback reasons reported on heuristic results.
const (
	ReasonArtifactUnavailable  = "artifact_unavailable"
	ReasonArtifactIncompatible = "artifact_incompatible"
)

// ConfigurationDefectError is raised when a form value has no entry in the adapter's mapping tables.
// It is a programming error and must never be defaulted away.
type ConfigurationDefectError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationDefectError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration defect in %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration defect in %s=%q: %s", e.Field, e.Value, e.Reason)
}

// fallbackReason maps an invocation error onto the error taxonomy.
func fallbackReason(err error) string {
	if errors.Is(err, ErrArtifactUnavailable) {
		return ReasonArtifactUnavailable
	}
	return ReasonArtifactIncompatible
}
