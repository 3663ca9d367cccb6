package ingest

import (
	"errors"
	"fmt"
)

// ErrPrecondition matches every upload rejected before a version was created.
var ErrPrecondition = errors.New("upload rejected")

// Precondition rejection reasons.
const (
	ReasonProviderNotFound = "provider not found"
	ReasonEmptyFile        = "empty or invalid file"
)

// Failure reasons recorded when a run fails after its upload was accepted.
const (
	ReasonSaveItems          = "error saving items"
	ReasonEmbeddings         = "error generating embeddings"
	ReasonPublishVectors     = "error publishing vectors"
	ReasonFinalizeActivation = "failed to finalize activation"
	ReasonOpenVersion        = "failed to create catalog version"
	ReasonProviderLock       = "provider upload lock unavailable"
	ReasonRunSlot            = "no ingestion slot available"
)

// PreconditionError carries the human-readable rejection reason.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return "upload rejected: " + e.Reason }

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

func reject(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// RejectionReason returns the reason of a precondition error, or "".
func RejectionReason(err error) string {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
