package chi

import (
	"net/http"

	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

// ListPhones handles GET /phones.
func (s *Server) ListPhones(w http.ResponseWriter, r *http.Request) {
	docs, err := s.phones.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OK", "docs": docs})
}

// SearchPhones handles GET /phones/search.
func (s *Server) SearchPhones(w http.ResponseWriter, r *http.Request) {
	q, err := searchQuery(r)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}

	page, err := s.search.Phones(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetPhone handles GET /phones/id/{id}.
func (s *Server) GetPhone(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := s.phones.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": doc})
}

// CreatePhone handles POST /phones.
func (s *Server) CreatePhone(w http.ResponseWriter, r *http.Request) {
	var p domphone.Phone
	if err := s.decodeBody(r, validation.Phone, &p); err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}

	doc, err := s.phones.Create(r.Context(), &p)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "doc": doc})
}

// UpdatePhone handles PATCH /phones/{id}.
func (s *Server) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("Update Failed"))
		return
	}
	set, err := decodePatch(r)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("Update Failed"))
		return
	}

	doc, err := s.phones.Update(r.Context(), id, set)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("Update Failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OK", "doc": doc})
}
