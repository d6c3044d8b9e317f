package ident

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const localPrefix = "local-"

// ID is an opaque identifier assigned by the backend or minted locally.
// It decodes from either a JSON string or a JSON number.
type ID string

// String returns the identifier as a string.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalText encodes the identifier as a plain string. Keeping the text form
// lets IDs be used as map keys and in YAML documents.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

// UnmarshalText decodes the plain string form.
func (id *ID) UnmarshalText(text []byte) error {
	*id = ID(text)
	return nil
}

var (
	localMu   sync.Mutex
	localLast int64
)

// NewLocal mints a session-scoped placeholder identifier from the wall clock.
// It is only unique within this process and must be replaced by the
// server-assigned identifier once the entity is persisted.
func NewLocal() ID {
	localMu.Lock()
	defer localMu.Unlock()

	n := time.Now().UnixNano()
	if n <= localLast {
		n = localLast + 1
	}
	localLast = n
	return ID(localPrefix + strconv.FormatInt(n, 10))
}

// IsLocal reports whether id was minted by NewLocal.
func IsLocal(id ID) bool {
	return strings.HasPrefix(string(id), localPrefix)
}
