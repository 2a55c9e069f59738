package app

import (
	"log/slog"
	"net/http"

	"github.com/swaggo/swag/v2"

	// registers the OpenAPI document with swag
	_ "github.com/shandysiswandi/otpgate/docs"
)

func serveAPIDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read api doc", "error", err)
		http.Error(w, "api doc unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write([]byte(doc)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write api doc", "error", err)
	}
}
