package core

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// ID identifies every persisted record. Records written by older releases
// carry numeric ids, so decoding accepts both JSON numbers and strings.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int returns the numeric value of a counter-allocated id.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IDFromInt formats a counter value as an ID.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// NewUUID returns a time-ordered UUIDv7 id, falling back to a random v4 when
// the clock sequence cannot be read.
func NewUUID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(u.String())
}
