package types

import "time"

// Option is the canonical shape every lookup list is normalized into.
type Option struct {
	ID             int64  `json:"id"`
	Label          string `json:"label"`
	SecondaryLabel string `json:"secondaryLabel,omitempty"`
}

// LookupEntry is a row of one of the lookup tables (location types, regions).
type LookupEntry struct {
	ID             int64     `db:"id"`
	Label          string    `db:"label"`
	SecondaryLabel *string   `db:"secondary_label"`
	DisplayOrder   int       `db:"display_order"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
}

func (e *LookupEntry) Option() Option {
	option := Option{ID: e.ID, Label: e.Label}
	if e.SecondaryLabel != nil {
		option.SecondaryLabel = *e.SecondaryLabel
	}
	return option
}

type Coordinate struct {
	Lat float64 `json:"lat" form:"lat"`
	Lng float64 `json:"lng" form:"lng"`
}
