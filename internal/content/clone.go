package content

import (
	"encoding/json"
	"reflect"
)

// cloneEntry deep copies v through its JSON form, which is also the shape it
// is persisted in.
func cloneEntry[T Entry](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

func isNil[T Entry](v T) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// persistable clears view-only markers before records are written.
func persistable[T Entry](records []T) []T {
	for _, r := range records {
		base := r.Base()
		base.Fallback = false
		base.OriginalLanguage = ""
	}
	return records
}
