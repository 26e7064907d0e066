package entity

// Kind is the searchable entity type.
type Kind string

// Searchable entities.
const (
	Phone Kind = "phone"
	Offer Kind = "offer"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Phone || k == Offer
}
