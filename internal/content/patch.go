package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Patch is a partial update keyed by JSON field name. Nested objects replace
// the stored value as a whole.
type Patch map[string]any

// protectedFields are owned by the service and ignored in patches.
var protectedFields = []string{"id", "language", "updatedAt", "fallbackContent", "originalLang"}

// normalized drops nil values and protected fields.
func (p Patch) normalized() Patch {
	out := make(Patch, len(p))
	for key, value := range p {
		if value == nil {
			continue
		}
		out[key] = value
	}
	for _, key := range protectedFields {
		delete(out, key)
	}
	return out
}

// check rejects patches whose values cannot decode into the record type and
// patches that blank the title. It performs no I/O.
func checkPatch[T Entry](kind Kind[T], patch Patch) error {
	if raw, ok := patch["title"]; ok {
		if title, isString := raw.(string); isString && strings.TrimSpace(title) == "" {
			return goerrors.NewValidation("invalid patch",
				goerrors.FieldError{Field: "title", Message: "title is required"},
			).WithTextCode(TextCodeValidation)
		}
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return patchFailure(err)
	}
	if err := json.Unmarshal(data, kind.New()); err != nil {
		return patchFailure(err)
	}
	return nil
}

// applyPatch merges patch over current and decodes the result into a new
// record. current is left untouched.
func applyPatch[T Entry](current T, patch Patch) (T, error) {
	var out T
	data, err := json.Marshal(current)
	if err != nil {
		return out, err
	}
	merged := map[string]any{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&merged); err != nil {
		return out, err
	}
	for key, value := range patch {
		merged[key] = value
	}
	data, err = json.Marshal(merged)
	if err != nil {
		return out, patchFailure(err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, patchFailure(err)
	}
	return out, nil
}

func patchFailure(err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return goerrors.NewValidation("invalid patch",
			goerrors.FieldError{Field: "patch", Message: err.Error()},
		).WithTextCode(TextCodeValidation)
	}
	return goerrors.NewValidation("invalid patch",
		goerrors.FieldError{Field: typeErr.Field, Message: fmt.Sprintf("expected %s", typeErr.Type)},
	).WithTextCode(TextCodeValidation)
}
