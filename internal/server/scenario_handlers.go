package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"aimtrainer/internal/db"
	"aimtrainer/internal/scenarios"
)

// handleGenerateScenarios returns a page of generated drills. It needs no
// database.
func (s *Server) handleGenerateScenarios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed := 0
	if v := q.Get("seed"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = n
	}
	category := scenarios.CategoryPrecision
	if v := q.Get("category"); v != "" {
		c, err := scenarios.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"seed":      seed,
		"category":  category,
		"blurb":     category.Blurb(),
		"scenarios": scenarios.Generate(seed, category),
	})
}

func (s *Server) requireCatalog(w http.ResponseWriter) bool {
	if s.Catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "scenario catalog requires a database connection")
		return false
	}
	return true
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	q := r.URL.Query()
	var categories []string
	if v := q.Get("category"); v != "" {
		for _, name := range strings.Split(v, ",") {
			c, err := scenarios.ParseCategory(name)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			categories = append(categories, string(c))
		}
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	list, err := s.Catalog.ListScenarios(r.Context(), categories, limit)
	if err != nil {
		logger.Error("listing scenarios", "err", err)
		writeError(w, http.StatusInternalServerError, "listing scenarios")
		return
	}
	if list == nil {
		list = []scenarios.Scenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	var sc scenarios.Scenario
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := scenarios.ParseCategory(string(sc.Category))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc.Category = c
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.Name == "" {
		sc.Name = sc.Options.Name
	}
	sc.Options = sc.Options.Normalize()

	if err := s.Catalog.SaveScenario(r.Context(), sc); err != nil {
		logger.Error("saving scenario", "id", sc.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "saving scenario")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	sc, err := s.Catalog.GetScenario(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		logger.Error("getting scenario", "err", err)
		writeError(w, http.StatusInternalServerError, "getting scenario")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	err := s.Catalog.DeleteScenario(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		logger.Error("deleting scenario", "err", err)
		writeError(w, http.StatusInternalServerError, "deleting scenario")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
