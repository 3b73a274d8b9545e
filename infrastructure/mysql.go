package infrastructure

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kkratossdead/Cv-Ia/domain"
)

// legacyOfferID is the sentinel offer that adopts analyses predating the
// job-offer relation. It is created only when such rows actually exist.
const legacyOfferID = "default_legacy"

// Store persists job offers and analyses. Reads return named-field records;
// consumers never depend on column positions.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and prepares the schema.
func NewMySQLStore(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return NewStore(db, log)
}

// NewStore migrates the schema on the given connection and backfills the
// legacy job offer for any analysis rows that predate the relation.
func NewStore(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&domain.JobOffer{}, &domain.Analysis{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	s := &Store{db: db, logger: log}
	if err := s.backfillLegacyOffer(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) backfillLegacyOffer() error {
	var orphans int64
	err := s.db.Model(&domain.Analysis{}).
		Where("job_offer_id = '' OR job_offer_id IS NULL").
		Count(&orphans).Error
	if err != nil {
		return fmt.Errorf("count unlinked analyses: %w", err)
	}
	if orphans == 0 {
		return nil
	}

	legacy := domain.JobOffer{
		ID:        legacyOfferID,
		Title:     "Offre héritée (analyses antérieures)",
		Content:   "Analyses réalisées avant l'implémentation du système d'offres d'emploi",
		CreatedAt: time.Now(),
	}
	if err := s.db.Where(domain.JobOffer{ID: legacyOfferID}).FirstOrCreate(&legacy).Error; err != nil {
		return fmt.Errorf("create legacy job offer: %w", err)
	}

	err = s.db.Model(&domain.Analysis{}).
		Where("job_offer_id = '' OR job_offer_id IS NULL").
		Update("job_offer_id", legacyOfferID).Error
	if err != nil {
		return fmt.Errorf("link legacy analyses: %w", err)
	}

	s.logger.Info("linked legacy analyses to sentinel offer", zap.Int64("count", orphans))
	return nil
}

// CreateJobOffer stores a new offer under a generated id and returns it. The
// row is durable before this returns, so analyses may reference it.
func (s *Store) CreateJobOffer(title, content string) (*domain.JobOffer, error) {
	offer := &domain.JobOffer{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(offer).Error; err != nil {
		return nil, fmt.Errorf("create job offer: %w", err)
	}
	return offer, nil
}

// CreateAnalysis stores one analysis row linked to its job offer.
func (s *Store) CreateAnalysis(a *domain.Analysis) error {
	if a.JobOfferID == "" {
		return fmt.Errorf("analysis requires a job offer id")
	}
	if err := s.db.Create(a).Error; err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

// ListJobOffers returns all offers, newest first, each with its count of
// linked analyses.
func (s *Store) ListJobOffers() ([]domain.JobOfferSummary, error) {
	var offers []domain.JobOffer
	if err := s.db.Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("list job offers: %w", err)
	}

	var counts []struct {
		JobOfferID string
		Total      int64
	}
	err := s.db.Model(&domain.Analysis{}).
		Select("job_offer_id, COUNT(*) AS total").
		Group("job_offer_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	byOffer := make(map[string]int64, len(counts))
	for _, c := range counts {
		byOffer[c.JobOfferID] = c.Total
	}

	summaries := make([]domain.JobOfferSummary, 0, len(offers))
	for _, offer := range offers {
		summaries = append(summaries, domain.JobOfferSummary{
			JobOffer:      offer,
			AnalysisCount: byOffer[offer.ID],
		})
	}
	return summaries, nil
}

// ListAnalyses returns stored analyses, optionally filtered by job offer.
// Order is newest first, ties broken by descending id, and is stable.
func (s *Store) ListAnalyses(jobOfferID string) ([]domain.Analysis, error) {
	query := s.db.Order("created_at DESC, id DESC")
	if jobOfferID != "" {
		query = query.Where("job_offer_id = ?", jobOfferID)
	}

	var analyses []domain.Analysis
	if err := query.Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return analyses, nil
}

// JobOfferStats aggregates score_global over one offer's analyses. An offer
// with no analyses yields a zero-count result, never an error.
func (s *Store) JobOfferStats(jobOfferID string) (*domain.OfferStats, error) {
	var row struct {
		Total     int64
		MeanScore *float64
		MaxScore  *int
		MinScore  *int
	}
	err := s.db.Model(&domain.Analysis{}).
		Select("COUNT(*) AS total, AVG(score_global) AS mean_score, MAX(score_global) AS max_score, MIN(score_global) AS min_score").
		Where("job_offer_id = ?", jobOfferID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("job offer stats: %w", err)
	}

	stats := &domain.OfferStats{Count: row.Total}
	if row.Total > 0 && row.MeanScore != nil {
		stats.MeanScore = *row.MeanScore
		stats.MaxScore = *row.MaxScore
		stats.MinScore = *row.MinScore
	}
	return stats, nil
}

// GetJobOffer fetches one offer by id.
func (s *Store) GetJobOffer(id string) (*domain.JobOffer, error) {
	var offer domain.JobOffer
	if err := s.db.First(&offer, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get job offer: %w", err)
	}
	return &offer, nil
}
