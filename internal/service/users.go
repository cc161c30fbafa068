package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/model"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

// handleSyncUser upserts the profile document for the authenticated user
// from their token claims. Clients call this after sign-in.
func (s *FinanceService) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	user := &model.User{
		ID:          claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}

	// CreatedAt is set once, on first sync.
	if _, err := s.store.GetUser(r.Context(), claims.UID); errors.Is(err, store.ErrNotFound) {
		user.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}

	if err := s.store.UpsertUser(r.Context(), user); err != nil {
		writeStoreError(w, err)
		return
	}

	stored, err := s.store.GetUser(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
