package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidOrder is returned when an order is placed without items.
var ErrInvalidOrder = errors.New("invalid order")

// ErrIllegalTransition is returned when a status change violates the order lifecycle graph.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrWindowClosed is returned when a courier offers after the acceptance window closed.
var ErrWindowClosed = errors.New("acceptance window closed")

// ErrDuplicateCandidate signals that the courier already offered for the order.
var ErrDuplicateCandidate = errors.New("candidate already recorded")

// ErrAlreadyResolved signals that the manager decision was already taken (manually or automatically).
var ErrAlreadyResolved = errors.New("order already resolved")

// ErrNotCandidate is returned when the manager picks a courier absent from the closed candidate list.
var ErrNotCandidate = errors.New("courier is not a candidate")

// ErrCourierBusy is returned when the courier is engaged in another delivery.
var ErrCourierBusy = errors.New("courier is busy")
