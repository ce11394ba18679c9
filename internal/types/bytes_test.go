package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesMarshalAsNumberArray(t *testing.T) {
	out, err := json.Marshal(Bytes{0x68, 0x69})
	require.NoError(t, err)
	assert.Equal(t, "[104,105]", string(out))

	out, err = json.Marshal(Bytes(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestBytesUnmarshalForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"number array", `[104, 105]`, []byte("hi")},
		{"empty array", `[]`, []byte{}},
		{"base64 string", `"aGk="`, []byte("hi")},
		{"null", `null`, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bytes
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.want, []byte(b))
		})
	}
}

func TestBytesUnmarshalRejectsInvalid(t *testing.T) {
	for _, input := range []string{`[256]`, `[-1]`, `["a"]`, `"not base64!"`, `{}`, `12`} {
		var b Bytes
		assert.Error(t, json.Unmarshal([]byte(input), &b), input)
	}
}

func TestBytesInsideStruct(t *testing.T) {
	var args struct {
		Path string `json:"path"`
		Data Bytes  `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"path":"a.bin","data":[0,255,7]}`), &args))
	assert.Equal(t, "a.bin", args.Path)
	assert.Equal(t, []byte{0, 255, 7}, []byte(args.Data))
}

func TestEntryDescriptorKeys(t *testing.T) {
	ms := uint64(1700000000000)
	out, err := json.Marshal(EntryDescriptor{Name: "f", Path: "d/f", Size: 3, MtimeMs: &ms})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"f","path":"d/f","isDirectory":false,"size":3,"mtimeMs":1700000000000}`, string(out))

	out, err = json.Marshal(EntryDescriptor{Name: "d", Path: "d", IsDirectory: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"d","path":"d","isDirectory":true,"size":0,"mtimeMs":null}`, string(out))
}
