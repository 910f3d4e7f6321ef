package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConflictError covers unique-constraint violations: duplicate title or
// context hashes, exhausted slug attempts.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func NewConflictWrap(msg string, err error) *ConflictError {
	return &ConflictError{Message: msg, Err: err}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbidden(msg string) *ForbiddenError {
	return &ForbiddenError{Message: msg}
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorized(msg string) *UnauthorizedError {
	return &UnauthorizedError{Message: msg}
}

// UpstreamError marks failures of external collaborators: the text
// generation oracle or the news source. The enclosing operation fails with
// no partial writes, so callers can safely retry.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstream(msg string) *UpstreamError {
	return &UpstreamError{Message: msg}
}

func NewUpstreamWrap(msg string, err error) *UpstreamError {
	return &UpstreamError{Message: msg, Err: err}
}

// PersistenceError wraps unexpected storage failures. The wrapped driver
// error stays internal; only Message is user-visible.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(msg string, err error) *PersistenceError {
	return &PersistenceError{Message: msg, Err: err}
}
