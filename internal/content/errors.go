package content

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrRecordRequired = errors.New("content: record is required")
	ErrStoreRequired  = errors.New("content: collection store is required")
	ErrKindInvalid    = errors.New("content: kind requires a name and a constructor")
)

const (
	TextCodeNotFound   = "RECORD_NOT_FOUND"
	TextCodeValidation = "RECORD_VALIDATION_FAILED"
)

// NotFoundError reports a key that matched no record in the view searched.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a rejected record or patch.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func notFound(resource, key string) error {
	return goerrors.Wrap(&NotFoundError{Resource: resource, Key: key}, goerrors.CategoryNotFound, "record not found").
		WithTextCode(TextCodeNotFound)
}

// validationFailure converts ozzo errors, or any other error, into a
// go-errors validation error carrying field issues.
func validationFailure(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return err
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, message)
	}
	out := goerrors.FromOzzoValidation(err, message).WithTextCode(TextCodeValidation)
	sort.Slice(out.ValidationErrors, func(i, j int) bool {
		return out.ValidationErrors[i].Field < out.ValidationErrors[j].Field
	})
	return out
}
