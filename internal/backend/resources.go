// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/validate"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// mountResource registers def's five routes exactly as its dialect
// declares them: method, path and where the id travels.
func (s *Server) mountResource(r chi.Router, def catalog.Definition) {
	ep := def.Endpoints
	r.MethodFunc(ep.List.Method, ep.List.Path, s.listHandler(def))
	r.MethodFunc(ep.Get.Method, ep.Get.Path, s.getHandler(def))
	r.MethodFunc(ep.Create.Method, ep.Create.Path, s.createHandler(def))
	r.MethodFunc(ep.Update.Method, ep.Update.Path, s.updateHandler(def))
	r.MethodFunc(ep.Delete.Method, ep.Delete.Path, s.deleteHandler(def))
}

func (s *Server) listHandler(def catalog.Definition) http.HandlerFunc {
	ep := def.Endpoints
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lq := ListQuery{
			Page:   positiveInt(q.Get(ep.PageKey()), 1),
			Limit:  positiveInt(q.Get(ep.LimitKey()), 10),
			Search: strings.TrimSpace(q.Get(ep.SearchKey())),
		}
		docs, total, err := s.opts.Store.List(r.Context(), def.Name, lq)
		if err != nil {
			logAndInternalError(w, s.logger, "failed to list records", "resource", def.Name, "error", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  docs,
			"total": total,
			"page":  lq.Page,
			"limit": lq.Limit,
		})
	}
}

func (s *Server) getHandler(def catalog.Definition) http.HandlerFunc {
	route := def.Endpoints.Get
	return func(w http.ResponseWriter, r *http.Request) {
		id, _, ok := s.requestID(w, r, route, def)
		if !ok {
			return
		}
		doc, err := s.opts.Store.Get(r.Context(), def.Name, id)
		if err != nil {
			s.storeError(w, def, "get", id, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": doc})
	}
}

func (s *Server) createHandler(def catalog.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := s.readBody(w, r)
		if !ok {
			return
		}
		doc, ok := s.decodeDocument(w, body)
		if !ok {
			return
		}
		if msg := missingRequired(def, body); msg != "" {
			writeJSONError(w, http.StatusBadRequest, msg)
			return
		}
		created, err := s.opts.Store.Create(r.Context(), def.Name, doc)
		if err != nil {
			logAndInternalError(w, s.logger, "failed to create record", "resource", def.Name, "error", err)
			return
		}
		s.logger.Info("record created", "resource", def.Name, "id", created.ID())
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": def.Label + " created successfully",
			"data":    created,
		})
	}
}

func (s *Server) updateHandler(def catalog.Definition) http.HandlerFunc {
	route := def.Endpoints.Update
	return func(w http.ResponseWriter, r *http.Request) {
		id, body, ok := s.requestID(w, r, route, def)
		if !ok {
			return
		}
		patch, ok := s.decodeDocument(w, body)
		if !ok {
			return
		}
		if route.IDIn == apiclient.IDInBody {
			delete(patch, route.IDKey())
		}
		updated, err := s.opts.Store.Update(r.Context(), def.Name, id, patch)
		if err != nil {
			s.storeError(w, def, "update", id, err)
			return
		}
		s.logger.Info("record updated", "resource", def.Name, "id", id)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": def.Label + " updated successfully",
			"data":    updated,
		})
	}
}

func (s *Server) deleteHandler(def catalog.Definition) http.HandlerFunc {
	route := def.Endpoints.Delete
	return func(w http.ResponseWriter, r *http.Request) {
		id, _, ok := s.requestID(w, r, route, def)
		if !ok {
			return
		}
		if err := s.opts.Store.Delete(r.Context(), def.Name, id); err != nil {
			s.storeError(w, def, "delete", id, err)
			return
		}
		s.logger.Info("record deleted", "resource", def.Name, "id", id)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": def.Label + " deleted successfully",
		})
	}
}

// requestID extracts the id from wherever route expects it. The request
// body is read once and returned for handlers that also need it. A request
// that carries the id anywhere else is rejected, as the real backend does.
func (s *Server) requestID(w http.ResponseWriter, r *http.Request, route apiclient.Route, def catalog.Definition) (string, []byte, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return "", nil, false
	}

	var id string
	switch route.IDIn {
	case apiclient.IDInPath:
		id = chi.URLParam(r, route.IDKey())
	case apiclient.IDInBody:
		if len(body) > 0 {
			id = gjson.GetBytes(body, route.IDKey()).String()
		}
	default:
		id = r.URL.Query().Get(route.IDKey())
	}

	id = strings.TrimSpace(id)
	if id == "" {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("%s id is required (%s %q)", def.Label, route.IDIn, route.IDKey()))
		return "", nil, false
	}
	return id, body, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	return body, true
}

func (s *Server) decodeDocument(w http.ResponseWriter, body []byte) (Document, bool) {
	doc := Document{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return doc, true
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	return doc, true
}

func (s *Server) storeError(w http.ResponseWriter, def catalog.Definition, action, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, def.Label+" not found")
		return
	}
	logAndInternalError(w, s.logger, "failed to "+action+" record", "resource", def.Name, "id", id, "error", err)
}

// missingRequired reports the first required schema field absent from a
// create body, in the server's own wording.
func missingRequired(def catalog.Definition, body []byte) string {
	for _, f := range def.Schema {
		if !f.Required {
			continue
		}
		v := gjson.GetBytes(body, f.JSONPath())
		if !v.Exists() || validate.IsEmpty(v.Value()) {
			return f.Name + " is required"
		}
	}
	return ""
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
