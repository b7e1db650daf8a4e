package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/dmitrijs2005/cartkeeper/internal/server/carts"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type cartResponse struct {
	Items []models.CartItem `json:"items"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type syncRequest struct {
	Items []carts.SyncPair `json:"items"`
}

func (s *HTTPServer) writeCart(w http.ResponseWriter, items []models.CartItem) {
	if items == nil {
		items = []models.CartItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cartResponse{Items: items})
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound), carts.IsLineNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error(r.Context(), "cart operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *HTTPServer) handleGetCart(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.GetCart(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}

func (s *HTTPServer) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items, err := s.service.AddItem(r.Context(), userIDFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}

func (s *HTTPServer) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lineKey := chi.URLParam(r, "lineKey")
	items, err := s.service.SetQuantity(r.Context(), userIDFromContext(r.Context()), lineKey, req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}

func (s *HTTPServer) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	lineKey := chi.URLParam(r, "lineKey")
	items, err := s.service.RemoveItem(r.Context(), userIDFromContext(r.Context()), lineKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}

func (s *HTTPServer) handleClear(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.Clear(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}

func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request) {
	syncID := r.Header.Get(common.SyncIDHeaderName)
	if syncID == "" {
		http.Error(w, "missing sync id", http.StatusBadRequest)
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items, err := s.service.Sync(r.Context(), userIDFromContext(r.Context()), syncID, req.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCart(w, items)
}
