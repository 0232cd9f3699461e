// Package decoder turns submitted HTML forms into structs.
package decoder

import (
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
)

type FormDecoder struct {
	decoder *schema.Decoder
}

func New() *FormDecoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return &FormDecoder{decoder: d}
}

// DecodeForm parses r's form body into dst, which must be a pointer to struct.
func (d *FormDecoder) DecodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("decoder: parse form: %w", err)
	}
	if err := d.decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	return nil
}
