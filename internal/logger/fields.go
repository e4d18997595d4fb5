package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidateID = "candidate_id"
	FieldRunID       = "run_id"
)

// MatchFields identifies a candidate and a ranking run. Blank identifiers
// are left out, so a history lookup can log the candidate alone.
func MatchFields(candidateID, runID string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if id := strings.TrimSpace(candidateID); id != "" {
		fields = append(fields, zap.String(FieldCandidateID, id))
	}
	if id := strings.TrimSpace(runID); id != "" {
		fields = append(fields, zap.String(FieldRunID, id))
	}
	return fields
}

// WithMatchFields returns logger tagged with the candidate and run. A nil
// logger becomes a no-op one.
func WithMatchFields(logger *zap.Logger, candidateID, runID string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := MatchFields(candidateID, runID)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
