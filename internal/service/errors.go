package service

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for the caller.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindExternal   Kind = "EXTERNAL_SERVICE"
	KindConflict   Kind = "CONFLICT"
	KindNotFound   Kind = "NOT_FOUND"
	KindInvariant  Kind = "INVARIANT_VIOLATION"
)

// Error is a structured pipeline failure. Two errors match under errors.Is
// when their Kind and Code agree, so wrapped copies still match the sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Code == e.Code
}

// With returns a copy of e carrying a cause and optional details.
func (e *Error) With(cause error, details ...string) *Error {
	cp := *e
	cp.Err = cause
	if len(details) > 0 {
		cp.Details = append([]string(nil), details...)
	}
	return &cp
}

// Withf returns a copy of e with a more specific message.
func (e *Error) Withf(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// KindOf returns the Kind of err, or "" when err is not a pipeline error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Domain Errors
var (
	ErrInvalidInput        = newError(KindValidation, "INVALID_INPUT", "invalid input")
	ErrNoImages            = newError(KindValidation, "NO_IMAGES", "no images provided")
	ErrTooManyImages       = newError(KindValidation, "TOO_MANY_IMAGES", "too many images in one batch")
	ErrUnsupportedFileType = newError(KindValidation, "UNSUPPORTED_FILE_TYPE", "unsupported file type")
	ErrFileTooLarge        = newError(KindValidation, "FILE_TOO_LARGE", "file too large")

	ErrExtractionFailed = newError(KindExternal, "EXTRACTION_FAILED", "no text could be extracted from the images")

	ErrDuplicateDailyTask = newError(KindConflict, "DUPLICATE_DAILY_TASK", "an active daily task already exists for this date and subject")
	ErrAlreadyAttempted   = newError(KindConflict, "ALREADY_ATTEMPTED", "daily challenge already attempted")
	ErrDailyTaskInUse     = newError(KindConflict, "DAILY_TASK_IN_USE", "daily task has attempts and cannot be deleted")

	ErrQuizNotFound      = newError(KindNotFound, "QUIZ_NOT_FOUND", "quiz not found")
	ErrDailyTaskNotFound = newError(KindNotFound, "DAILY_TASK_NOT_FOUND", "daily task not found or inactive")
	ErrAttemptNotFound   = newError(KindNotFound, "ATTEMPT_NOT_FOUND", "attempt not found")

	ErrInvalidQuestion = newError(KindInvariant, "INVALID_QUESTION", "question must have exactly one correct option")
)
