package offer

import (
	"strings"
	"time"

	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// DealType is the kind of deal an offer describes.
type DealType string

// Deal types.
const (
	SimFree  DealType = "simfree"
	Contract DealType = "contract"
	SimOnly  DealType = "simonly"
)

// IsValid checks if the deal type is one of the supported values.
func (d DealType) IsValid() bool {
	return d == SimFree || d == Contract || d == SimOnly
}

// Deal holds the commercial terms of an offer.
type Deal struct {
	Cost           float64 `json:"cost"`
	UpfrontCost    float64 `json:"upfrontCost"`
	Data           float64 `json:"data"`
	Minutes        float64 `json:"minutes"`
	Texts          float64 `json:"texts"`
	ContractLength float64 `json:"contractLength"`
	DeliveryCost   float64 `json:"deliveryCost"`
}

// Offer is a retailer deal for a phone.
type Offer struct {
	ID          string        `json:"_id"`
	Phone       phone.Summary `json:"phone"`
	Description string        `json:"description,omitempty"`
	Network     string        `json:"network,omitempty"`
	DealType    DealType      `json:"dealType"`
	Deal        Deal          `json:"deal"`
	Store       string        `json:"store,omitempty"`
	URL         string        `json:"url,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Detail is an offer without its phone summary and timestamps.
type Detail struct {
	ID          string   `json:"_id"`
	Description string   `json:"description,omitempty"`
	Network     string   `json:"network,omitempty"`
	DealType    DealType `json:"dealType"`
	Deal        Deal     `json:"deal"`
	Store       string   `json:"store,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// ListFilter narrows the admin offer listing to exact matches. Empty fields match everything.
type ListFilter struct {
	DealType string
	Brand    string
	Network  string
	PhoneID  string
}

// Normalize trims string fields and applies defaults.
func (o *Offer) Normalize() {
	o.Description = strings.TrimSpace(o.Description)
	o.Network = strings.TrimSpace(o.Network)
	o.Store = strings.TrimSpace(o.Store)
	o.URL = strings.TrimSpace(o.URL)
	if o.DealType == "" {
		o.DealType = Contract
	}
}

// Validate checks enumerations and numeric terms.
func (o *Offer) Validate() error {
	if !o.DealType.IsValid() {
		return domain.NewValidationError("dealType", "must be one of simfree, contract, simonly")
	}
	d := o.Deal
	for field, v := range map[string]float64{
		"deal.cost":           d.Cost,
		"deal.upfrontCost":    d.UpfrontCost,
		"deal.contractLength": d.ContractLength,
		"deal.deliveryCost":   d.DeliveryCost,
	} {
		if v < 0 {
			return domain.NewValidationError(field, "must not be negative")
		}
	}
	return nil
}

// Detail strips the phone summary and timestamps.
func (o *Offer) Detail() Detail {
	return Detail{
		ID:          o.ID,
		Description: o.Description,
		Network:     o.Network,
		DealType:    o.DealType,
		Deal:        o.Deal,
		Store:       o.Store,
		URL:         o.URL,
	}
}
