package model

import "time"

type Link struct {
	ID        int64     `json:"id"`
	Original  string    `json:"original"`
	Short     string    `json:"short"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateLinkRequest struct {
	Original string `form:"original"`
	Custom   string `form:"custom"`
}

type LinkResponse struct {
	ID        int64     `json:"id"`
	Short     string    `json:"short"`
	Original  string    `json:"original"`
	ShortURL  string    `json:"short_url"`
	StatsURL  string    `json:"stats_url"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatedAtISO formats the creation time the way the stats page shows it.
func (r *LinkResponse) CreatedAtISO() string {
	return r.CreatedAt.UTC().Format(time.RFC3339)
}
