package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyString(t *testing.T) {
	cases := map[Money]string{
		0:           "$0",
		999:         "$999",
		1000:        "$1,000",
		160000000:   "$160,000,000",
		-1234567:    "-$1,234,567",
		12345678901: "$12,345,678,901",
	}
	for in, want := range cases {
		assert.Equal(t, want, in.String())
	}
}

func TestMovieRuntimeString(t *testing.T) {
	assert.Equal(t, "148 min", MovieRuntime(148).String())
}

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"27205","b":27205,"c":null}`), &v))
	assert.Equal(t, ID("27205"), v.A)
	assert.Equal(t, ID("27205"), v.B)
	assert.Equal(t, ID(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestAuthorUnmarshal(t *testing.T) {
	t.Run("populated", func(t *testing.T) {
		var a Author
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","username":"neo"}`), &a))
		assert.Equal(t, Author{ID: "u1", Username: "neo"}, a)
	})
	t.Run("bare id", func(t *testing.T) {
		var a Author
		require.NoError(t, json.Unmarshal([]byte(`"u1"`), &a))
		assert.Equal(t, Author{ID: "u1"}, a)
	})
}
