package server

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/registry"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req service.CalculateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.svc.Calculate(r.Context(), scopeOf(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type batchRequest struct {
	Rows []batch.RawRow `json:"rows"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var rows []batch.RawRow
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv":
		var err error
		rows, err = batch.ReadCSV(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
		var tooLarge *http.MaxBytesError
		switch {
		case err == nil:
		case errors.As(err, &tooLarge):
			writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		case errors.Is(err, carbon.ErrValidation):
			s.writeError(w, r, err)
			return
		default:
			writeDetail(w, http.StatusBadRequest, "invalid CSV body: "+err.Error())
			return
		}
	default:
		var req batchRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		rows = req.Rows
	}

	resp, err := s.svc.Batch(r.Context(), scopeOf(r), rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		var buf bytes.Buffer
		if err := batch.WriteCSV(&buf, rows, resp.Outcome, s.svc.Config().Carbon.Rounding); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="Results.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatchTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := batch.WriteTemplate(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="Template.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Registry().ListMachines(r.Context(), scopeOf(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Registry().Machine(r.Context(), scopeOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	var draft registry.MachineDraft
	if !s.decodeJSON(w, r, &draft) {
		return
	}
	m, err := s.svc.Registry().CreateMachine(r.Context(), scopeOf(r), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMachine(w http.ResponseWriter, r *http.Request) {
	var patch registry.MachinePatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}
	m, err := s.svc.Registry().UpdateMachine(r.Context(), scopeOf(r), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Registry().DeleteMachine(r.Context(), scopeOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Registry().ListMaterials(r.Context(), scopeOf(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Registry().Material(r.Context(), scopeOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var draft registry.MaterialDraft
	if !s.decodeJSON(w, r, &draft) {
		return
	}
	m, err := s.svc.Registry().CreateMaterial(r.Context(), scopeOf(r), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var patch registry.MaterialPatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}
	m, err := s.svc.Registry().UpdateMaterial(r.Context(), scopeOf(r), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Registry().DeleteMaterial(r.Context(), scopeOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	list, err := s.svc.Results(r.Context(), scopeOf(r), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Result(r.Context(), scopeOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
