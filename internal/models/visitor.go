package models

import "time"

// Visitor is an append-only record of a unique storefront visitor,
// deduplicated by IP address.
type Visitor struct {
	IPAddress string    `json:"ip_address"`
	Location  string    `json:"location"`
	VisitedAt time.Time `json:"visited_at"`
}
