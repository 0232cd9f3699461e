package decoder

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	Rating   int    `schema:"rating"`
	Title    string `schema:"title"`
	Spoilers bool   `schema:"spoilers"`
}

func newFormRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeForm(t *testing.T) {
	d := New()

	var form reviewForm
	err := d.DecodeForm(newFormRequest(url.Values{
		"rating": {"8"}, "title": {"Great"}, "spoilers": {"on"}, "csrf": {"ignored"},
	}), &form)
	require.NoError(t, err)
	assert.Equal(t, reviewForm{Rating: 8, Title: "Great", Spoilers: true}, form)

	err = d.DecodeForm(newFormRequest(url.Values{"rating": {"lots"}}), &form)
	assert.Error(t, err)
}
