package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MovieRuntime is a movie length in minutes.
type MovieRuntime int32

func (m MovieRuntime) String() string {
	return fmt.Sprintf("%d min", m)
}

// Money is a whole dollar amount as reported by the catalog (budget, revenue).
type Money int64

func (m Money) String() string {
	digits := strconv.FormatInt(int64(m), 10)
	neg := false
	if m < 0 {
		neg = true
		digits = digits[1:]
	}
	var b bytes.Buffer
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// ID is an identifier the remote API sends either as a JSON string or a number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Author is the review owner. The API either populates it with the user
// document or leaves the bare user id.
type Author struct {
	ID       string `json:"_id"`
	Username string `json:"username,omitempty"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = Author{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		type plain Author
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*a = Author(p)
		return nil
	}
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Author{ID: id.String()}
	return nil
}
