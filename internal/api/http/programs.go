package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

func ListProgramsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programs, err := store.ListPrograms(r.Context())
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, programs)
	}
}

func CreateProgramHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		p := catalog.Program{ID: uuid.NewString(), Name: strings.TrimSpace(req.Name)}
		if err := store.PutProgram(r.Context(), p); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, p)
	}
}

func ListProgramOutcomesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID := chi.URLParam(r, "programID")
		if _, err := store.GetProgram(r.Context(), programID); err != nil {
			storeError(w, err)
			return
		}
		pos, err := store.ListProgramOutcomes(r.Context(), programID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, pos)
	}
}

type programOutcomeReq struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Active      *bool  `json:"active"`
}

func CreateProgramOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID := chi.URLParam(r, "programID")
		if _, err := store.GetProgram(r.Context(), programID); err != nil {
			storeError(w, err)
			return
		}
		var req programOutcomeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}
		po := catalog.ProgramOutcome{
			ID:          uuid.NewString(),
			ProgramID:   programID,
			Code:        strings.TrimSpace(req.Code),
			Description: req.Description,
			Order:       req.Order,
			Active:      req.Active == nil || *req.Active,
		}
		if err := store.PutProgramOutcome(r.Context(), po); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, po)
	}
}

func UpdateProgramOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		po, err := store.GetProgramOutcome(r.Context(), chi.URLParam(r, "poID"))
		if err != nil {
			storeError(w, err)
			return
		}
		var req programOutcomeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) != "" {
			po.Code = strings.TrimSpace(req.Code)
		}
		if req.Description != "" {
			po.Description = req.Description
		}
		if req.Order != 0 {
			po.Order = req.Order
		}
		if req.Active != nil {
			po.Active = *req.Active
		}
		if err := store.PutProgramOutcome(r.Context(), po); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, po)
	}
}

func DeleteProgramOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteProgramOutcome(r.Context(), chi.URLParam(r, "poID")); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
