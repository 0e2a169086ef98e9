/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a document or registration is not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when attempting to create something that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDiscoveryIO is returned when the set of candidate types cannot be enumerated
	ErrDiscoveryIO = errors.New("repository discovery failed")

	// ErrTypeLoad is returned when a discovered artifact cannot be resolved into a type
	ErrTypeLoad = errors.New("type could not be loaded")

	// ErrDuplicateRegistration is returned when two contracts resolve to the same registration key
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrMissingIndexName is returned in strict mode when a contract declares no index
	ErrMissingIndexName = errors.New("missing index name")

	// ErrSynthesis is returned when no implementation can be produced for a contract
	ErrSynthesis = errors.New("repository synthesis failed")

	// ErrAlreadyBootstrapped is returned when a bootstrapper is run a second time
	ErrAlreadyBootstrapped = errors.New("repositories already bootstrapped")
)

// NotFoundError represents an error when a document or registration is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a resource already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DiscoveryIOError reports that a base path could not be enumerated at all.
type DiscoveryIOError struct {
	Path string
	Err  error
}

func (e *DiscoveryIOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot enumerate %q", e.Path)
	}
	return fmt.Sprintf("cannot enumerate %q: %v", e.Path, e.Err)
}

func (e *DiscoveryIOError) Is(target error) bool {
	return target == ErrDiscoveryIO
}

func (e *DiscoveryIOError) Unwrap() error {
	return e.Err
}

// TypeLoadError reports a single artifact that could not be resolved into a type.
type TypeLoadError struct {
	Artifact string
	Err      error
}

func (e *TypeLoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Artifact, e.Err)
}

func (e *TypeLoadError) Is(target error) bool {
	return target == ErrTypeLoad
}

func (e *TypeLoadError) Unwrap() error {
	return e.Err
}

// DuplicateRegistrationError reports a registration key that is already taken
type DuplicateRegistrationError struct {
	Key string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("repository with key %q already registered", e.Key)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// MissingIndexNameError reports a contract without an index descriptor
type MissingIndexNameError struct {
	Type string
}

func (e *MissingIndexNameError) Error() string {
	return fmt.Sprintf("%s declares no index name", e.Type)
}

func (e *MissingIndexNameError) Is(target error) bool {
	return target == ErrMissingIndexName
}

// SynthesisError reports a contract for which no implementation can be produced.
// It indicates a contract that should not have passed qualification.
type SynthesisError struct {
	Type   string
	Reason string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("cannot synthesize %s: %s", e.Type, e.Reason)
}

func (e *SynthesisError) Is(target error) bool {
	return target == ErrSynthesis
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewDiscoveryIOError creates a new DiscoveryIOError
func NewDiscoveryIOError(path string, err error) error {
	return &DiscoveryIOError{Path: path, Err: err}
}

// NewTypeLoadError creates a new TypeLoadError
func NewTypeLoadError(artifact string, err error) error {
	return &TypeLoadError{Artifact: artifact, Err: err}
}

// NewDuplicateRegistrationError creates a new DuplicateRegistrationError
func NewDuplicateRegistrationError(key string) error {
	return &DuplicateRegistrationError{Key: key}
}

// NewMissingIndexNameError creates a new MissingIndexNameError
func NewMissingIndexNameError(typeName string) error {
	return &MissingIndexNameError{Type: typeName}
}

// NewSynthesisError creates a new SynthesisError
func NewSynthesisError(typeName, reason string) error {
	return &SynthesisError{Type: typeName, Reason: reason}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDuplicateRegistration checks if an error is a duplicate registration error
func IsDuplicateRegistration(err error) bool {
	return errors.Is(err, ErrDuplicateRegistration)
}

// IsSynthesisError checks if an error is a synthesis error
func IsSynthesisError(err error) bool {
	return errors.Is(err, ErrSynthesis)
}

// IsMissingIndexName checks if an error is a missing index name error
func IsMissingIndexName(err error) bool {
	return errors.Is(err, ErrMissingIndexName)
}
