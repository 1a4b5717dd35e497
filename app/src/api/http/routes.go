package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"
	sharederrors "quote-frontend/app/src/shared/errors"

	"github.com/go-chi/chi/v5"
)

const maxAddQuoteBytes = 64 * 1024

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// handler contains the HTTP handlers and shared dependencies for the frontend.
type handler struct {
	service domain.RelayService
	logger  *infra.Logger
}

func registerRoutes(router chi.Router, h *handler) {
	router.Get(constants.PathLive, h.handleHealth)
	router.Get(constants.PathReady, h.handleHealth)

	router.Get(constants.PathIndex, h.handleIndex)
	router.Get(constants.PathRandom, h.handleRandomQuote)
	router.Get(constants.PathQuotes, h.handleQuotes)
	router.Post(constants.PathAddQuote, h.handleAddQuote)
	router.Get(constants.PathHostname, h.handleHostname)
}

// handleHealth always succeeds: the fallback list keeps the frontend serviceable
// without a backend.
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := h.service.Index(r.Context())

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		h.logger.Errorf(r.Context(), "render index: %v", err)
		h.writeText(w, http.StatusInternalServerError, sharederrors.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *handler) handleRandomQuote(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, http.StatusOK, h.service.RandomQuote(r.Context()))
}

func (h *handler) handleQuotes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Quotes(r.Context()))
}

func (h *handler) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAddQuoteBytes))
	if err != nil {
		h.logger.Errorf(r.Context(), "read add-quote body: %v", err)
		h.writeText(w, http.StatusInternalServerError, "Could not parse quote")
		return
	}
	h.logger.Printf(r.Context(), "received JSON: %s", body)

	result := h.service.AddQuote(r.Context(), body)
	h.writeText(w, result.Status, result.Message)
}

func (h *handler) handleHostname(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Hostnames(r.Context()))
}

func (h *handler) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
