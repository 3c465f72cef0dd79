package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// ID identifies a backend record. The platform serializes primary keys as
// numbers on some endpoints and as strings on others, so both are accepted.
type ID string

func (x ID) String() string {
	return string(x)
}

// IsZero reports whether the ID is unset
func (x ID) IsZero() bool {
	return x == ""
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null
func (x *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*x = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "failed to decode string ID")
		}
		*x = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return goerr.Wrap(err, "failed to decode numeric ID", goerr.V("raw", string(data)))
	}
	*x = ID(n.String())
	return nil
}

// Less orders IDs numerically when both are integers, lexically otherwise
func (x ID) Less(y ID) bool {
	a, errA := strconv.ParseInt(string(x), 10, 64)
	b, errB := strconv.ParseInt(string(y), 10, 64)
	if errA == nil && errB == nil {
		return a < b
	}
	return x < y
}
