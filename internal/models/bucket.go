package models

import "time"

// BucketGroup is an ordered container of buckets. Position is 1-based and contiguous.
type BucketGroup struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Position int    `json:"position" yaml:"position"`
}

// Bucket is a budget envelope. ValidFrom and IsInactiveFrom are month-granular.
type Bucket struct {
	ID             int64     `json:"id" yaml:"id"`
	GroupID        int64     `json:"group_id" yaml:"group_id"`
	Name           string    `json:"name" yaml:"name"`
	ColorCode      string    `json:"color_code,omitempty" yaml:"color_code,omitempty"`
	TextColorCode  string    `json:"text_color_code,omitempty" yaml:"text_color_code,omitempty"`
	ValidFrom      time.Time `json:"valid_from" yaml:"valid_from"`
	IsInactive     bool      `json:"is_inactive" yaml:"is_inactive"`
	IsInactiveFrom time.Time `json:"is_inactive_from,omitempty" yaml:"is_inactive_from,omitempty"`
	// IsSystem marks the built-in income and transfer buckets
	IsSystem bool `json:"is_system,omitempty" yaml:"is_system,omitempty"`
}

// IsActiveIn reports whether the bucket is not (yet) closed in the given month
func (b Bucket) IsActiveIn(month time.Time) bool {
	return !b.IsInactive || b.IsInactiveFrom.After(month)
}

// IsVisibleIn reports whether the bucket should be listed for the given month:
// it must exist already and must not be closed for that month.
func (b Bucket) IsVisibleIn(month time.Time) bool {
	if b.IsSystem {
		return true
	}
	return !b.ValidFrom.After(month) && b.IsActiveIn(month)
}
