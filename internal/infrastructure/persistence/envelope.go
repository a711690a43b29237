package persistence

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 1

// ErrSchemaVersion wraps a version mismatch on restore.
type ErrSchemaVersion struct {
	Found int
}

func (e *ErrSchemaVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot schema version %d (want %d)", e.Found, SchemaVersion)
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// MarshalSnapshot wraps v in a versioned envelope and serializes it.
func MarshalSnapshot(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UnmarshalSnapshot decodes a versioned envelope into v. A version other
// than SchemaVersion fails with ErrSchemaVersion.
func UnmarshalSnapshot(s string, v interface{}) error {
	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return err
	}
	if env.Version != SchemaVersion {
		return &ErrSchemaVersion{Found: env.Version}
	}
	return json.Unmarshal(env.Data, v)
}
