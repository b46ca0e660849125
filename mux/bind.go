package mux

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// decoder is the subset of json.Decoder and xml.Decoder used for binding.
type decoder interface {
	Decode(v any) error
}

// decodeOne decodes exactly one value from dec into v. A second value in
// the stream is an error: request bodies must contain a single document.
func decodeOne(dec decoder, v any, format string) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("mux: unexpected trailing data after %s value", format)
	}
	return nil
}

// BindJSON decodes the request body as JSON into v.
// By default the decoder rejects unknown fields that do not map to exported
// struct fields. Pass true to allow unknown fields.
// Exactly one JSON value must be present in the body; trailing data is an error.
func BindJSON(r *http.Request, v any, allowUnknownFields ...bool) error {
	dec := json.NewDecoder(r.Body)
	if len(allowUnknownFields) == 0 || !allowUnknownFields[0] {
		dec.DisallowUnknownFields()
	}
	return decodeOne(dec, v, "JSON")
}

// BindXML decodes the request body as XML into v.
// Exactly one XML element must be present in the body; trailing data is an error.
func BindXML(r *http.Request, v any) error {
	return decodeOne(xml.NewDecoder(r.Body), v, "XML")
}

// BindYAML decodes the request body as YAML into v.
// Exactly one YAML document must be present in the body; a second document
// is an error.
func BindYAML(r *http.Request, v any) error {
	return decodeOne(yaml.NewDecoder(r.Body), v, "YAML")
}

// BindJSONPath reads the request body and extracts the value at a gjson
// path, such as "user.address.city" or "items.0.id", without decoding
// the whole document into a struct. A missing path yields a result whose
// Exists method reports false. The body is consumed.
func BindJSONPath(r *http.Request, path string) (gjson.Result, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("mux: request body is not valid JSON")
	}
	return gjson.GetBytes(body, path), nil
}
