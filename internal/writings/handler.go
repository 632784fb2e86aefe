package writings

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler exposes the repository at a single path.
type Handler struct {
	repo   *Repository
	secret atomic.Pointer[[]byte]
	logger *zap.Logger
}

// NewHandler builds the handler. An empty secret rejects every write.
func NewHandler(repo *Repository, secret string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{repo: repo, logger: logger}
	h.SetSecret(secret)
	return h
}

// SetSecret rotates the bearer secret. Requests already past the auth check
// are not affected.
func (h *Handler) SetSecret(secret string) {
	b := []byte(secret)
	h.secret.Store(&b)
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hdr := w.Header()
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	hdr.Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		h.fail(w, "create", err)
		return
	}

	var req createRequest
	if err := decodeBody(r, &req); err != nil || req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	created, err := h.repo.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		h.fail(w, "delete", err)
		return
	}

	var req deleteRequest
	if err := decodeBody(r, &req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), req.ID); err != nil {
		h.fail(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) authorize(r *http.Request) error {
	secret := *h.secret.Load()
	if len(secret) == 0 {
		return ErrUnauthorized
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// fail maps an error to a status. Storage details never reach the client.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrMissingField):
		writeError(w, http.StatusBadRequest, "Missing required field")
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("writings request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrMissingField
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
