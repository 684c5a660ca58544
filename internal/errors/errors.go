package errors

import (
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ConflictError reports a write that lost against a concurrent change.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// TransitionError is returned when the status machine rejects a change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func NewTransitionError(from, to string) *TransitionError {
	return &TransitionError{From: from, To: to}
}

func IsTransitionError(err error) (*TransitionError, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// ItemUnavailableError means the catalog answered, but cannot supply the
// requested quantity of an item.
type ItemUnavailableError struct {
	ItemID    int
	Name      string
	Requested int
	Available int
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %d (%s) is not available in requested quantity %d (available %d)",
		e.ItemID, e.Name, e.Requested, e.Available)
}

func NewItemUnavailableError(itemID int, name string, requested, available int) *ItemUnavailableError {
	return &ItemUnavailableError{
		ItemID:    itemID,
		Name:      name,
		Requested: requested,
		Available: available,
	}
}

func IsItemUnavailableError(err error) (*ItemUnavailableError, bool) {
	var ie *ItemUnavailableError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// DependencyError means an upstream lookup for an item could not be completed.
type DependencyError struct {
	ItemID int
	Cause  error
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to validate item %d: %v", e.ItemID, e.Cause)
	}
	return fmt.Sprintf("failed to validate item %d", e.ItemID)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

func NewDependencyError(itemID int, cause error) *DependencyError {
	return &DependencyError{
		ItemID: itemID,
		Cause:  cause,
	}
}

func IsDependencyError(err error) (*DependencyError, bool) {
	var de *DependencyError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// PersistenceError means accepted input could not be durably recorded.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{
		Message: message,
		Cause:   cause,
	}
}

func IsPersistenceError(err error) (*PersistenceError, bool) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
