// Package apperr holds the error taxonomy shared by the gate, the ledger and
// the vote coordinator, and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("admin access required")
	ErrValidation        = errors.New("invalid request")
	ErrCandidateNotFound = errors.New("candidate not found for this voting")
	ErrAlreadyVoted      = errors.New("you have already voted in this voting")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
)

// VoteCheck names which guard rejected a duplicate vote.
type VoteCheck string

const (
	CheckPrecheck   VoteCheck = "precheck"
	CheckConstraint VoteCheck = "constraint"
)

// AlreadyVotedError is reported the same way to callers whichever guard caught it.
type AlreadyVotedError struct {
	Check VoteCheck
}

func (e *AlreadyVotedError) Error() string {
	return ErrAlreadyVoted.Error()
}

func (e *AlreadyVotedError) Is(target error) bool {
	return target == ErrAlreadyVoted
}

// StatusCode maps an error to the HTTP status a caller should see.
// Anything outside the taxonomy is a server error.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation), errors.Is(err, ErrCandidateNotFound):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyVoted), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected reports whether err is a client-side outcome that should not be
// logged as an alarm.
func IsExpected(err error) bool {
	return StatusCode(err) < http.StatusInternalServerError
}
