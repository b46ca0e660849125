package mux

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

// writeResponse writes an encoded body with the given status code and
// Content-Type header.
func writeResponse(w http.ResponseWriter, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	w.Write(body)
}

// encodingFailed replies with a plain 500 when a response body could not
// be encoded. Nothing has been written yet at this point, so the status
// code is still ours to set.
func encodingFailed(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// ResponseJSON encodes v as JSON and writes it to the response with the given
// status code. The Content-Type header is set to "application/json" per
// RFC 8259. If encoding fails, an HTTP 500 Internal Server Error is written
// instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		encodingFailed(w)
		return
	}
	writeResponse(w, code, "application/json", buf.Bytes())
}

// ResponseXML encodes v as XML and writes it to the response with the given
// status code. The Content-Type header is set to "application/xml" per
// RFC 7303. If encoding fails, an HTTP 500 Internal Server Error is written
// instead.
func ResponseXML(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		encodingFailed(w)
		return
	}
	writeResponse(w, code, "application/xml", buf.Bytes())
}

// ResponseYAML encodes v as YAML and writes it to the response with the given
// status code. The Content-Type header is set to "application/yaml" per
// RFC 9512. If encoding fails, an HTTP 500 Internal Server Error is written
// instead.
func ResponseYAML(w http.ResponseWriter, code int, v any) {
	body, err := yamlMarshal(v)
	if err != nil {
		encodingFailed(w)
		return
	}
	writeResponse(w, code, "application/yaml", body)
}

// yamlMarshal buffers the YAML encoding of v. yaml.v3 reports types it
// cannot marshal by panicking with a plain string rather than returning
// an error, so the encode runs behind a recover.
func yamlMarshal(v any) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("yaml: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err = enc.Encode(v)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
