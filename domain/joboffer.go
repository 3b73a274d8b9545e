package domain

import "time"

// JobOffer is the scoring reference for one or more candidate analyses.
// Created once per analysis batch, never updated or deleted.
type JobOffer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// JobOfferSummary is a JobOffer with its derived count of linked analyses.
type JobOfferSummary struct {
	JobOffer
	AnalysisCount int64 `json:"analysis_count"`
}

// OfferStats aggregates score_global over the analyses linked to one offer.
// A zero Count means no analyses exist; the score fields are then meaningless
// and left at zero.
type OfferStats struct {
	Count     int64   `json:"count"`
	MeanScore float64 `json:"mean_score"`
	MaxScore  int     `json:"max_score"`
	MinScore  int     `json:"min_score"`
}
