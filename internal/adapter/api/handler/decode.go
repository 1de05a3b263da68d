package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

var (
	errContentType  = errors.New("content type must be application/json")
	errTrailingData = errors.New("unexpected data after JSON value")
	errMissingField = errors.New("missing required field")
)

// decodeJSON reads exactly one size-capped JSON value into v. The request must
// declare application/json (or a +json subtype).
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBodySize int64, v any) error {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return errContentType
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return errTrailingData
	}
	return nil
}

func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// required dereferences a decoded string field, failing when it was absent or null.
func required(name string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: %s", errMissingField, name)
	}
	return *v, nil
}

// writeDecodeError maps a decodeJSON failure to a client error response.
func writeDecodeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, errContentType):
		http.Error(w, "Bad Request: Content-Type must be application/json", http.StatusBadRequest)
	default:
		http.Error(w, "Bad Request: Failed to decode JSON", http.StatusBadRequest)
	}
}

// writeJSON writes v as the whole response body, without a trailing newline.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
