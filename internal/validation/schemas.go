package validation

// Request body schemas by name.
const (
	Phone     = "phone"
	Offer     = "offer"
	OfferBulk = "offer_bulk"
	Option    = "option"
	User      = "user"
	Login     = "login"
)

const phoneSchema = `{
  "type": "object",
  "required": ["name", "brand"],
  "properties": {
    "name":        {"type": "string", "minLength": 1},
    "slug":        {"type": "string"},
    "brand":       {"type": "string", "minLength": 1},
    "image":       {"type": "string"},
    "os":          {"type": "string", "enum": ["Android", "iOS"]},
    "description": {"type": "string"},
    "features": {
      "type": "object",
      "properties": {
        "color":      {"type": "string"},
        "screenSize": {"type": "string"},
        "storage":    {"type": "string"},
        "memory":     {"type": "string"},
        "battery":    {"type": "string"}
      }
    }
  }
}`

const offerItem = `{
  "type": "object",
  "required": ["phone_id"],
  "properties": {
    "phone_id":    {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "network":     {"type": "string"},
    "dealType":    {"type": "string", "enum": ["simfree", "contract", "simonly"]},
    "store":       {"type": "string"},
    "url":         {"type": "string"},
    "deal": {
      "type": "object",
      "properties": {
        "cost":           {"type": "number", "minimum": 0},
        "upfrontCost":    {"type": "number", "minimum": 0},
        "data":           {"type": "number"},
        "minutes":        {"type": "number"},
        "texts":          {"type": "number"},
        "contractLength": {"type": "number", "minimum": 0},
        "deliveryCost":   {"type": "number", "minimum": 0}
      }
    }
  }
}`

const offerBulkSchema = `{"type": "array", "minItems": 1, "items": ` + offerItem + `}`

const optionSchema = `{
  "type": "object",
  "required": ["name", "value"],
  "properties": {
    "name": {"type": "string", "minLength": 1}
  }
}`

const userSchema = `{
  "type": "object",
  "required": ["name", "email", "password"],
  "properties": {
    "name":     {"type": "string", "minLength": 1},
    "email":    {"type": "string", "minLength": 1},
    "password": {"type": "string", "minLength": 6}
  }
}`

const loginSchema = `{
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email":    {"type": "string"},
    "password": {"type": "string"}
  }
}`

var sources = map[string]string{
	Phone:     phoneSchema,
	Offer:     offerItem,
	OfferBulk: offerBulkSchema,
	Option:    optionSchema,
	User:      userSchema,
	Login:     loginSchema,
}
