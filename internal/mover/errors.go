package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorReason categorizes why a single file could not be moved
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorSourceMissing
	ErrorDestinationExists
	ErrorFileInUse
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorSourceMissing:
		return "Source file not found"
	case ErrorDestinationExists:
		return "Destination already exists"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// MoveError represents a detailed per-file move failure. Per-file failures
// are isolated: the batch continues past them.
type MoveError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *MoveError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap returns the underlying error
func (e *MoveError) Unwrap() error {
	return e.Original
}

// UserMessage returns a short, actionable error message
func (e *MoveError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorSourceMissing:
		return fmt.Sprintf("Already gone: %s", e.Path)
	case ErrorDestinationExists:
		return fmt.Sprintf("A file with the same name already exists in the destination: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("File is being used: %s (close the application and try again)", e.Path)
	default:
		return fmt.Sprintf("Could not move %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized MoveError
func CategorizeError(path string, err error) *MoveError {
	if err == nil {
		return nil
	}

	moveErr := &MoveError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	// errors.Is walks wrap chains; the os.IsNotExist family does not.
	if errors.Is(err, fs.ErrNotExist) {
		moveErr.Reason = ErrorSourceMissing
		return moveErr
	}
	if errors.Is(err, fs.ErrPermission) {
		moveErr.Reason = ErrorPermissionDenied
		return moveErr
	}
	if errors.Is(err, fs.ErrExist) {
		moveErr.Reason = ErrorDestinationExists
		return moveErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			moveErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			moveErr.Reason = ErrorFileInUse
			moveErr.Retryable = true
		case syscall.ENOENT:
			moveErr.Reason = ErrorSourceMissing
		case syscall.EEXIST:
			moveErr.Reason = ErrorDestinationExists
		}
	}

	return moveErr
}

// GroupErrors groups move errors by reason
func GroupErrors(moveErrors []*MoveError) map[ErrorReason][]*MoveError {
	grouped := make(map[ErrorReason][]*MoveError)
	for _, err := range moveErrors {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of move errors
func FormatErrorSummary(moveErrors []*MoveError) string {
	if len(moveErrors) == 0 {
		return ""
	}

	grouped := GroupErrors(moveErrors)
	summary := "Issues encountered:\n"

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		summary += fmt.Sprintf("  - Permission denied: %d files\n", len(perms))
	}
	if missing, ok := grouped[ErrorSourceMissing]; ok {
		summary += fmt.Sprintf("  - Already gone: %d files\n", len(missing))
	}
	if exists, ok := grouped[ErrorDestinationExists]; ok {
		summary += fmt.Sprintf("  - Name collisions at destination: %d files\n", len(exists))
	}
	if busy, ok := grouped[ErrorFileInUse]; ok {
		summary += fmt.Sprintf("  - File in use: %d files\n", len(busy))
	}
	if unknown, ok := grouped[ErrorUnknown]; ok {
		summary += fmt.Sprintf("  - Other errors: %d files\n", len(unknown))
	}

	return summary
}
