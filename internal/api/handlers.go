package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vanish.share/config"
	"vanish.share/internal/models"
	"vanish.share/internal/store"
	"vanish.share/internal/token"
	"vanish.share/internal/vault"
)

type Handler struct {
	vault  *vault.Vault
	config *config.Config
}

func NewHandler(v *vault.Vault, cfg *config.Config) *Handler {
	return &Handler{
		vault:  v,
		config: cfg,
	}
}

// CreateRequest carries the opaque secret bytes. Payload and Auxiliary are
// base64 in transit (encoding/json []byte convention); the service never
// looks inside either.
type CreateRequest struct {
	Payload    []byte `json:"payload"`
	Auxiliary  []byte `json:"auxiliary,omitempty"`
	Protected  bool   `json:"protected,omitempty"`
	CreatorRef string `json:"creator_ref,omitempty"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

type CreateResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RevealResponse struct {
	Payload   []byte    `json:"payload"`
	Auxiliary []byte    `json:"auxiliary,omitempty"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StatusResponse struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
	ExpiresAt  time.Time  `json:"expires_at,omitzero"`
	ViewedAt   *time.Time `json:"viewed_at,omitempty"`
	ViewerHint string     `json:"viewer_hint,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateSecret(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Payload) == 0 {
		h.error(w, http.StatusBadRequest, "payload is required")
		return
	}
	if len(req.Payload) > h.config.Secrets.MaxPayloadBytes {
		h.error(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	if req.Protected && len(req.Auxiliary) == 0 {
		h.error(w, http.StatusBadRequest, "auxiliary is required for protected secrets")
		return
	}

	ttl := clampDuration(
		time.Duration(req.TTLSeconds)*time.Second,
		h.config.Secrets.DefaultTTL,
		h.config.Secrets.MaxTTL,
	)

	id := token.NewID()
	rec := &models.Record{
		Payload:    req.Payload,
		Auxiliary:  req.Auxiliary,
		Protected:  req.Protected,
		CreatorRef: req.CreatorRef,
	}

	if err := h.vault.Store(r.Context(), id, rec, ttl); err != nil {
		h.handleVaultError(w, err)
		return
	}

	h.json(w, http.StatusCreated, CreateResponse{
		ID:        id,
		URL:       h.config.Server.BaseURL + "/api/secrets/" + id,
		ExpiresAt: rec.ExpiresAt,
	})
}

func (h *Handler) RevealSecret(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.vault.Retrieve(r.Context(), id, viewerHint(r))
	if err != nil {
		h.handleVaultError(w, err)
		return
	}

	h.json(w, http.StatusOK, RevealResponse{
		Payload:   snap.Payload,
		Auxiliary: snap.Auxiliary,
		Protected: snap.Protected,
		CreatedAt: snap.CreatedAt,
		ExpiresAt: snap.ExpiresAt,
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	info, err := h.vault.Status(r.Context(), id)
	if err != nil {
		h.handleVaultError(w, err)
		return
	}

	h.json(w, http.StatusOK, StatusResponse{
		ID:         id,
		Status:     string(info.Status),
		CreatedAt:  info.CreatedAt,
		ExpiresAt:  info.ExpiresAt,
		ViewedAt:   info.ViewedAt,
		ViewerHint: info.ViewerHint,
	})
}

// viewerHint is the coarse caller description recorded at burn time:
// remote address (RealIP-resolved) plus user agent, size-capped.
func viewerHint(r *http.Request) string {
	hint := r.RemoteAddr
	if ua := r.UserAgent(); ua != "" {
		hint += " " + ua
	}
	const maxHint = 256
	if len(hint) > maxHint {
		hint = hint[:maxHint]
	}
	return hint
}

func (h *Handler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) error(w http.ResponseWriter, status int, message string) {
	h.json(w, status, ErrorResponse{Error: message})
}

func (h *Handler) handleVaultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrConflict):
		h.error(w, http.StatusConflict, "secret already exists")
	case errors.Is(err, store.ErrNotFound):
		// Uniform for never-existed, already viewed and expired.
		h.error(w, http.StatusNotFound, "secret not found")
	case errors.Is(err, vault.ErrMalformedID):
		h.error(w, http.StatusBadRequest, "malformed secret id")
	default:
		// A storage failure during reveal may have landed after the burn
		// committed; retrying would read nothing. Say so instead.
		h.error(w, http.StatusInternalServerError, "internal error; the secret may be lost")
	}
}

func clampDuration(val, defaultVal, maxVal time.Duration) time.Duration {
	if val <= 0 {
		return defaultVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
