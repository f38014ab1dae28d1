// Package creature holds the record type shared by the loader, the
// aggregations and the views.
package creature

import "strings"

// Record is one catalog entry. Records are read-only once loaded; views hold
// pointers into the loaded slice and never copy-and-change them.
type Record struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Type           []string `json:"type"`
	Height         float64  `json:"height"`
	Weight         float64  `json:"weight"`
	BMI            float64  `json:"bmi"`
	BaseExperience int      `json:"base_experience"`
	Order          int      `json:"order"`
	SpriteURL      string   `json:"default_front_sprite"`
}

// Types returns the type labels joined for display.
func (r Record) Types() string {
	return strings.Join(r.Type, ", ")
}
