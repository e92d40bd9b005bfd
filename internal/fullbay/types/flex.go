package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a string that also accepts JSON numbers, booleans and null
// during decoding. The Fullbay feed is not consistent about quoting numeric
// fields, so any field that may carry a number is declared as FlexString and
// parsed downstream.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*f = "1"
		} else {
			*f = "0"
		}
		return nil
	}

	return fmt.Errorf("cannot decode %q as flexible string", string(data))
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string { return string(f) }

func (f FlexString) Empty() bool { return string(f) == "" }
