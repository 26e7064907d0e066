package chi

import (
	"net/http"

	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

// GetOption handles GET /options/id/{id}.
func (s *Server) GetOption(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := s.options.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": doc})
}

// ShortOptions handles GET /options/s/{name}.
func (s *Server) ShortOptions(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	docs, err := s.options.Short(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OK", "docs": docs})
}

// PageOptions handles GET /options/m/{name}.
func (s *Server) PageOptions(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("No matches found"))
		return
	}

	res, err := s.options.Page(r.Context(), name, request.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("No matches found"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateOption handles POST /options/add.
func (s *Server) CreateOption(w http.ResponseWriter, r *http.Request) {
	var o domoption.Option
	if err := s.decodeBody(r, validation.Option, &o); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := s.options.Create(r.Context(), &o)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Created", "doc": doc})
}

// UpdateOption handles PATCH /options/update/{id}.
func (s *Server) UpdateOption(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	set, err := decodePatch(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := s.options.Update(r.Context(), id, set)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OK", "doc": doc})
}

// DeleteOption handles DELETE /options/delete/{id}.
func (s *Server) DeleteOption(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if err := s.options.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("OK"))
}
