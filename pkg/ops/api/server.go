/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api exposes the ops core over a local HTTP JSON API for the
// dashboard UI.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/waterline-au/waterops/pkg/logger"
	"github.com/waterline-au/waterops/pkg/models"
	"github.com/waterline-au/waterops/pkg/ops"
	"github.com/waterline-au/waterops/pkg/tariffs"
)

// APIServer routes dashboard requests to the ops service.
type APIServer struct {
	service *ops.Service
	router  *mux.Router
	logger  logger.Logger
}

// NewAPIServer builds the server and registers all routes.
func NewAPIServer(service *ops.Service, log logger.Logger) *APIServer {
	if log == nil {
		log = logger.NewTestLogger()
	}

	s := &APIServer{
		service: service,
		router:  mux.NewRouter(),
		logger:  log,
	}

	s.setupRoutes()

	return s
}

// Router returns the configured handler.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) setupRoutes() {
	s.router.Use(commonMiddleware(s.logger))

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/status", s.getStatus).Methods("GET")
	api.HandleFunc("/refresh", s.postRefresh).Methods("POST")
	api.HandleFunc("/logs", s.getLogs).Methods("GET")
	api.HandleFunc("/incidents", s.getIncidents).Methods("GET")
	api.HandleFunc("/incidents/{id}", s.patchIncident).Methods("PATCH")
	api.HandleFunc("/providers", s.getProviders).Methods("GET")
	api.HandleFunc("/providers/{key}", s.getProviderHealth).Methods("GET")
	api.HandleFunc("/providers/{key}/check", s.postProviderCheck).Methods("POST")
	api.HandleFunc("/scheduler", s.getScheduler).Methods("GET")
	api.HandleFunc("/scheduler", s.putScheduler).Methods("PUT")
	api.HandleFunc("/scheduler/check", s.postSchedulerCheck).Methods("POST")
	api.HandleFunc("/meta", s.putMeta).Methods("PUT")
	api.HandleFunc("/quote", s.getQuote).Methods("GET")
	api.HandleFunc("/tariffs", s.getTariffs).Methods("GET")
}

// getStatus runs the scheduled-refresh due-check first so the tiles
// reflect fresh state when the scheduler is on, mirroring the page-load
// hook in the dashboard.
func (s *APIServer) getStatus(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.service.MaybeRunScheduledRefresh(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	dash, err := s.service.DashboardStatus()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, dash)
}

func (s *APIServer) postRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Only []string `json:"only"`
	}

	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body) // empty body is fine
	}

	var only map[string]bool

	if len(body.Only) > 0 {
		only = make(map[string]bool, len(body.Only))
		for _, key := range body.Only {
			only[key] = true
		}
	}

	res, err := s.service.RefreshAll(only)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, res)
}

func (s *APIServer) getLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}

		limit = n
	}

	logs, err := s.service.RunLogs(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, logs)
}

func (s *APIServer) getIncidents(w http.ResponseWriter, r *http.Request) {
	status := models.IncidentStatus(r.URL.Query().Get("status"))

	incs, err := s.service.ListIncidents(status)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, incs)
}

func (s *APIServer) patchIncident(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid incident id"))
		return
	}

	var body struct {
		Status models.IncidentStatus `json:"status"`
		Note   string                `json:"note"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ok, err := s.service.UpdateIncident(id, body.Status, body.Note)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("incident %d not found", id))
		return
	}

	s.encodeJSONResponse(w, map[string]bool{"updated": true})
}

// providerRow is one line of the health table.
type providerRow struct {
	Key    string                 `json:"key"`
	Name   string                 `json:"name"`
	Region string                 `json:"region"`
	Health *models.ProviderHealth `json:"health"`
}

func (s *APIServer) getProviders(w http.ResponseWriter, _ *http.Request) {
	ds := s.service.Dataset()
	rows := make([]providerRow, 0)

	for _, key := range ds.Keys() {
		t, ok := ds.Get(key)
		if !ok {
			continue
		}

		ph, err := s.service.ProviderHealth(key)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}

		rows = append(rows, providerRow{Key: key, Name: t.Name, Region: t.Region, Health: ph})
	}

	s.encodeJSONResponse(w, rows)
}

func (s *APIServer) getProviderHealth(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if _, ok := s.service.Dataset().Get(key); !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown provider %q", key))
		return
	}

	ph, err := s.service.ProviderHealth(key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, ph)
}

func (s *APIServer) postProviderCheck(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if _, ok := s.service.Dataset().Get(key); !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown provider %q", key))
		return
	}

	var body struct {
		Success bool   `json:"success"`
		Note    string `json:"note"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ph, err := s.service.MarkProviderChecked(key, body.Success, body.Note)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, ph)
}

func (s *APIServer) getScheduler(w http.ResponseWriter, _ *http.Request) {
	sch, err := s.service.SchedulerStatus()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, sch)
}

func (s *APIServer) putScheduler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled         bool `json:"enabled"`
		IntervalMinutes *int `json:"interval_minutes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sch, err := s.service.SetSchedulerEnabled(body.Enabled, body.IntervalMinutes)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, sch)
}

func (s *APIServer) postSchedulerCheck(w http.ResponseWriter, _ *http.Request) {
	res, err := s.service.MaybeRunScheduledRefresh()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, map[string]interface{}{
		"triggered": res != nil,
		"result":    res,
	})
}

func (s *APIServer) putMeta(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FY          *string `json:"fy"`
		LastUpdated *string `json:"last_updated"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	meta, err := s.service.UpdateMeta(body.FY, body.LastUpdated)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.encodeJSONResponse(w, meta)
}

func (s *APIServer) getQuote(w http.ResponseWriter, r *http.Request) {
	postcode := r.URL.Query().Get("postcode")
	if postcode == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("postcode is required"))
		return
	}

	usage := tariffs.BenchmarkUsageKL

	if raw := r.URL.Query().Get("usage"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid usage %q", raw))
			return
		}

		usage = f
	}

	dash, err := s.service.DashboardStatus()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	quote := tariffs.CheapestForPostcode(s.service.Dataset(), postcode, usage, dash.Meta)
	if quote == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no providers mapped for postcode %q", postcode))
		return
	}

	s.encodeJSONResponse(w, quote)
}

func (s *APIServer) getTariffs(w http.ResponseWriter, _ *http.Request) {
	ds := s.service.Dataset()
	out := make(map[string]models.Tariff, len(ds.Keys()))

	for _, key := range ds.Keys() {
		if t, ok := ds.Get(key); ok {
			out[key] = t
		}
	}

	s.encodeJSONResponse(w, out)
}

// encodeJSONResponse encodes a response as JSON.
func (s *APIServer) encodeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
