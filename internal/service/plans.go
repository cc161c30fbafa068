package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

type planRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	TargetDate  string  `json:"targetDate"`
}

func (req *planRequest) toPlan() (*model.FuturePlan, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	category, ok := model.ParseCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}

	targetDate := req.TargetDate
	if targetDate != "" {
		t, err := time.Parse(time.RFC3339, targetDate)
		if err != nil {
			d, derr := time.Parse("2006-01-02", targetDate)
			if derr != nil {
				return nil, fmt.Errorf("targetDate: expected RFC 3339 or YYYY-MM-DD, got %q", targetDate)
			}
			t = d
		}
		targetDate = t.UTC().Format(time.RFC3339)
	}

	return &model.FuturePlan{
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    category,
		TargetDate:  targetDate,
	}, nil
}

type listPlansResponse struct {
	Plans []*model.FuturePlan `json:"plans"`
}

func (s *FinanceService) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	plan, err := req.toPlan()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.CreatePlan(r.Context(), claims.UID, plan); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *FinanceService) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	plan, err := s.store.GetPlan(r.Context(), claims.UID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *FinanceService) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	plan, err := req.toPlan()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plan.ID = r.PathValue("id")

	if err := s.store.UpdatePlan(r.Context(), claims.UID, plan); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *FinanceService) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.store.DeletePlan(r.Context(), claims.UID, r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FinanceService) handleListPlans(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	plans, err := s.store.ListPlans(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if plans == nil {
		plans = []*model.FuturePlan{}
	}
	writeJSON(w, http.StatusOK, listPlansResponse{Plans: plans})
}
