package types

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// Bytes is a byte buffer whose JSON form is an array of integers (0..255),
// the encoding used by the desktop front-end for binary payloads.
// Decoding also accepts a base64 string, and null decodes to an empty buffer.
type Bytes []byte

// MarshalJSON encodes the buffer as a JSON number array
func (b Bytes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(b)*4 + 2)
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a number array, a base64 string, or null
func (b *Bytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = Bytes{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := sonic.ConfigStd.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid base64 bytes: %w", err)
		}
		*b = decoded
		return nil
	case '[':
		var nums []int
		if err := sonic.ConfigStd.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("invalid byte array: %w", err)
		}
		out := make(Bytes, len(nums))
		for i, n := range nums {
			if n < 0 || n > 255 {
				return fmt.Errorf("byte value %d at index %d out of range", n, i)
			}
			out[i] = byte(n)
		}
		*b = out
		return nil
	default:
		return fmt.Errorf("bytes must be an array of integers or a base64 string")
	}
}
