package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	offeruc "github.com/kailas-cloud/phonedex/internal/usecase/offer"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

// offerBody is a submitted offer: the offer fields plus the id of its phone.
type offerBody struct {
	domoffer.Offer
	PhoneID string `json:"phone_id"`
}

func (b offerBody) input() offeruc.Input {
	return offeruc.Input{PhoneID: b.PhoneID, Offer: b.Offer}
}

// SearchOffers handles GET /offers/findOffers.
func (s *Server) SearchOffers(w http.ResponseWriter, r *http.Request) {
	q, err := searchQuery(r)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}

	page, err := s.search.Offers(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetOffer handles GET /offers/id/{id}.
func (s *Server) GetOffer(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, phone, err := s.offers.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": doc, "phone": phone})
}

// OffersByPhoneSlug handles GET /offers/phone/{phone_slug}.
func (s *Server) OffersByPhoneSlug(w http.ResponseWriter, r *http.Request) {
	var slug string
	if err := pathParam(r, "phone_slug", &slug); err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}

	res, err := s.offers.ByPhoneSlug(r.Context(), slug)
	if err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, message("error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// OffersByPhoneID handles GET /offers/phone/id/{id}.
func (s *Server) OffersByPhoneID(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.offers.ByPhoneID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListOffers handles GET /offers/all.
func (s *Server) ListOffers(w http.ResponseWriter, r *http.Request) {
	var (
		f     domoffer.ListFilter
		limit int
	)
	for name, dest := range map[string]any{
		"dealType": &f.DealType,
		"brand":    &f.Brand,
		"network":  &f.Network,
		"phone_id": &f.PhoneID,
		"limit":    &limit,
	} {
		if err := queryParam(r, name, dest); err != nil {
			s.handleDomainError(w, r, err)
			return
		}
	}
	page := request.ParsePage(r.URL.Query().Get("page"))

	res, err := s.offers.List(r.Context(), f, page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AddOffer handles POST /offers/add.
func (s *Server) AddOffer(w http.ResponseWriter, r *http.Request) {
	var body offerBody
	if err := s.decodeBody(r, validation.Offer, &body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := s.offers.Add(r.Context(), body.input())
	if err != nil {
		if errors.Is(err, offeruc.ErrPhoneNotFound) {
			writeError(w, http.StatusBadRequest, "Phone not found")
			return
		}
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Created", "doc": doc})
}

// AddOffers handles POST /offers/addBulk. Items are stored independently;
// the response carries one result per submitted item.
func (s *Server) AddOffers(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(r, validation.OfferBulk)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var bodies []offerBody
	if err := json.Unmarshal(raw, &bodies); err != nil {
		s.handleDomainError(w, r, validationBodyError(err))
		return
	}

	items := make([]offeruc.Input, len(bodies))
	for i, b := range bodies {
		items[i] = b.input()
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": s.offers.AddBulk(r.Context(), items)})
}

// UpdateOffer handles PATCH /offers/update/{id}.
func (s *Server) UpdateOffer(w http.ResponseWriter, r *http.Request) {
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

	doc, err := s.offers.Update(r.Context(), id, set)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OK", "doc": doc})
}

// DeleteOffer handles DELETE /offers/delete/{id}.
func (s *Server) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if err := s.offers.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message("OK"))
}
