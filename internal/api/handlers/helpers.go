package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeErrorDetail reports an unclassified failure: a generic error plus
// the failure detail for diagnostics.
func writeErrorDetail(w http.ResponseWriter, r *http.Request, status int, msg, detail string) {
	writeJSON(w, r, status, map[string]string{"error": msg, "detail": detail})
}

// decodeBody decodes a single strict JSON object into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errExtraBody
	}
	return nil
}

type bodyError string

func (e bodyError) Error() string { return string(e) }

const errExtraBody = bodyError("body must contain only one JSON object")
