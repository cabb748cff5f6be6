package models

import (
	"encoding/json"
	"strconv"
)

// FlexID is an identifier that clients may send as a number, a numeric string,
// a client-generated placeholder string, or omit entirely. A value that does not
// parse as a positive integer marks the entry as new rather than failing the request.
type FlexID int

// UnmarshalJSON accepts numbers and strings; anything non-numeric decodes to zero
func (f *FlexID) UnmarshalJSON(data []byte) error {
	*f = 0

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if id, err := num.Int64(); err == nil && id > 0 {
			*f = FlexID(id)
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if id, err := strconv.Atoi(str); err == nil && id > 0 {
			*f = FlexID(id)
		}
		return nil
	}

	// null or unexpected shapes mean "new entry", not an error
	return nil
}

// MarshalJSON encodes the identifier as a plain number
func (f FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// IsNew reports whether the value did not reference an existing row
func (f FlexID) IsNew() bool {
	return f <= 0
}

// Int returns the identifier as an int
func (f FlexID) Int() int {
	return int(f)
}
