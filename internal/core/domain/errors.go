package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for retry and presentation decisions.
// Conflicts and validation failures are never retried automatically;
// transient failures are retried by the offline queue; fatal errors are
// programmer mistakes and propagate as-is.
type Kind int

const (
	KindUnknown Kind = iota
	KindConflict
	KindValidation
	KindTransient
	KindFatal
)

var (
	ErrNotFound              = errors.New("not found")
	ErrSectorClosed          = errors.New("sector is closed")
	ErrSectorHeld            = errors.New("sector held by another operator")
	ErrAlreadyHolding        = errors.New("operator already holds another sector")
	ErrAlreadyClosed         = errors.New("inventory already closed")
	ErrClosingBlocked        = errors.New("closing blocked")
	ErrJustificationRequired = errors.New("justification required")
)

// Error is a tagged domain error. Callers branch on Kind or match the
// sentinel target with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Target  error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return e.Target != nil && target == e.Target }

func Conflict(target error, code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...), Target: target}
}

func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Transient(code, format string, args ...any) *Error {
	return &Error{Kind: KindTransient, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Fatal(code, format string, args ...any) *Error {
	return &Error{Kind: KindFatal, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindFatal, Code: "NOT_FOUND", Message: fmt.Sprintf(format, args...), Target: ErrNotFound}
}

// KindOf reports the kind of err, unwrapping as needed. Errors that are
// not domain errors are treated as transient: they come from transports
// and storage, which are exactly the failures worth retrying.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var he *HeldError
	if errors.As(err, &he) {
		return KindConflict
	}
	var be *BlockedError
	if errors.As(err, &be) {
		return KindConflict
	}
	if err != nil {
		return KindTransient
	}
	return KindUnknown
}

// HeldError is returned when a claim loses to another operator. It
// carries the holder's identity so the UI can say who has the sector.
type HeldError struct {
	SectorID   int64
	HolderID   string
	HolderName string
}

func (e *HeldError) Error() string {
	if e.HolderName != "" {
		return fmt.Sprintf("sector %d is being counted by %s", e.SectorID, e.HolderName)
	}
	return fmt.Sprintf("sector %d is being counted by another operator", e.SectorID)
}

func (e *HeldError) Is(target error) bool { return target == ErrSectorHeld }

// BlockedError enumerates everything still preventing an inventory from
// closing, so the caller can explain exactly what is missing.
type BlockedError struct {
	Blockers Blockers
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("closing blocked: %d sectors never opened, %d sectors not closed, %d pending divergences",
		len(e.Blockers.SectorsNotOpened), len(e.Blockers.SectorsNotClosed), e.Blockers.PendingDivergences)
}

func (e *BlockedError) Is(target error) bool { return target == ErrClosingBlocked }

// Blockers is the go/no-go computation behind inventory closing.
type Blockers struct {
	SectorsNotOpened   []int64 `json:"sectorsNotOpened"`
	SectorsNotClosed   []int64 `json:"sectorsNotClosed"`
	PendingDivergences int     `json:"pendingDivergences"`
}

func (b Blockers) Empty() bool {
	return len(b.SectorsNotOpened) == 0 && len(b.SectorsNotClosed) == 0 && b.PendingDivergences == 0
}
