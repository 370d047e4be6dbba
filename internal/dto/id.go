package dto

import (
	"bytes"
	"strconv"
)

// FlexID is a 64-bit identifier that accepts both JSON numbers and quoted
// strings on input and always serializes as a string, so identifiers larger
// than JavaScript's safe integer range survive the round trip.
type FlexID int64

func (id FlexID) Int64() int64 { return int64(id) }

func (id FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(id), 10))), nil
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = FlexID(n)
	return nil
}
