package handlers

import (
	_ "embed"
	"net/http"
	"strconv"
)

//go:embed static/index.html
var indexHTML []byte

func HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(indexHTML)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

type Counter interface {
	Len() int
}

// HandleHealth reports liveness together with the number of loaded charities.
func HandleHealth(ds Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "charities": ds.Len()})
	}
}
