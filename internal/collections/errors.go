package collections

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrVersionConflict  = errors.New("collections: document changed since it was loaded")
	ErrCollectionName   = errors.New("collections: collection name is required")
	ErrDatabaseRequired = errors.New("collections: database handle is required")
)

const (
	TextCodeReadFailed  = "STORAGE_READ_FAILED"
	TextCodeWriteFailed = "STORAGE_WRITE_FAILED"
	TextCodeConflict    = "STORAGE_VERSION_CONFLICT"
)

// ReadError reports a document that exists but could not be read or parsed.
type ReadError struct {
	Collection string
	Language   string
	Location   string
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("collections: read %s/%s (%s): %v", e.Collection, e.Language, e.Location, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a document that could not be persisted. The previous
// document is left in place.
type WriteError struct {
	Collection string
	Language   string
	Location   string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("collections: write %s/%s (%s): %v", e.Collection, e.Language, e.Location, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsReadFailure reports whether err carries a *ReadError.
func IsReadFailure(err error) bool {
	var target *ReadError
	return errors.As(err, &target)
}

// IsWriteFailure reports whether err carries a *WriteError.
func IsWriteFailure(err error) bool {
	var target *WriteError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a failed compare-and-swap save.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

func readFailure(collection, language, location string, err error) error {
	return goerrors.Wrap(&ReadError{
		Collection: collection,
		Language:   language,
		Location:   location,
		Err:        err,
	}, goerrors.CategoryInternal, "collection document unreadable").
		WithTextCode(TextCodeReadFailed)
}

func writeFailure(collection, language, location string, err error) error {
	return goerrors.Wrap(&WriteError{
		Collection: collection,
		Language:   language,
		Location:   location,
		Err:        err,
	}, goerrors.CategoryInternal, "collection document not persisted").
		WithTextCode(TextCodeWriteFailed)
}

func conflict(collection, language string) error {
	return goerrors.Wrap(ErrVersionConflict, goerrors.CategoryConflict,
		fmt.Sprintf("collection %s/%s was modified concurrently", collection, language)).
		WithTextCode(TextCodeConflict)
}
