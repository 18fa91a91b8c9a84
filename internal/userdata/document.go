package userdata

import (
	"encoding/json"
	"time"
)

// Document is the per-user structure holding tracked companies and
// URL-to-company mappings. Company records are opaque to the server and kept
// as raw JSON. Every value in Mappings should reference a key in Companies;
// this is re-established by DeleteCompany rather than checked on every write.
type Document struct {
	Companies   map[string]json.RawMessage `json:"companies"`
	Mappings    map[string]string          `json:"mappings"`
	LastUpdated time.Time                  `json:"last_updated,omitempty"`
}

// NewDocument returns an empty document with non-nil maps.
func NewDocument() *Document {
	return &Document{
		Companies: map[string]json.RawMessage{},
		Mappings:  map[string]string{},
	}
}

// normalize replaces nil maps with empty ones so callers can range and index
// without nil checks.
func (d *Document) normalize() {
	if d.Companies == nil {
		d.Companies = map[string]json.RawMessage{}
	}
	if d.Mappings == nil {
		d.Mappings = map[string]string{}
	}
}
