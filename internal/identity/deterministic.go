package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "contentstore"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys must be prefixed by their domain so different kinds of singletons
// never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SettingsUUID is the id of the settings record with the given name.
func SettingsUUID(name string) uuid.UUID {
	return UUID(namespace + ":settings:" + strings.ToLower(strings.TrimSpace(name)))
}

// ImportUUID identifies a document imported from sourcePath into collection,
// so repeated imports of the same file are recognized in logs and results.
func ImportUUID(collection, sourcePath string) uuid.UUID {
	return UUID(namespace + ":import:" + strings.ToLower(strings.TrimSpace(collection)) + ":" + strings.TrimSpace(sourcePath))
}
