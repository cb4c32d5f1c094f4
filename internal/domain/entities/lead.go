package entities

import (
	"strings"
	"time"
)

// LeadForm is a data-collection form attached to a page. Sourced entirely
// from the upstream API, never persisted.
type LeadForm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CreatedTime string `json:"created_time"`
}

// LeadField is one named field of a submission; the upstream format allows
// multiple values per field.
type LeadField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Lead is a single form submission: a timestamp plus an unordered bag of
// named field values.
type Lead struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	FieldData   []LeadField `json:"field_data"`
}

// CreatedAt parses the upstream created_time. The Graph API emits RFC3339
// with a numeric zone offset and no colon (2006-01-02T15:04:05-0700).
func (l *Lead) CreatedAt() (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if t, err := time.Parse(layout, l.CreatedTime); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FieldValue returns the joined value of the named field, or "" when the
// field is absent. Multiple values join with ", ".
func (l *Lead) FieldValue(name string) string {
	for _, f := range l.FieldData {
		if f.Name == name {
			return strings.Join(f.Values, ", ")
		}
	}
	return ""
}

// FilterLeadsByWindow returns the leads whose creation timestamp falls inside
// the window. An unset bound is unconstrained on that side; a lead whose
// timestamp cannot be parsed is excluded only when a bound is set.
func FilterLeadsByWindow(leads []Lead, window DateRange) []Lead {
	if window.From.IsZero() && window.To.IsZero() {
		return leads
	}

	filtered := make([]Lead, 0, len(leads))
	for _, lead := range leads {
		t, ok := lead.CreatedAt()
		if !ok {
			continue
		}
		if !window.From.IsZero() && t.Before(window.From) {
			continue
		}
		if !window.To.IsZero() && t.After(window.To) {
			continue
		}
		filtered = append(filtered, lead)
	}
	return filtered
}
