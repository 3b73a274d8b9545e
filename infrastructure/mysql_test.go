package infrastructure

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kkratossdead/Cv-Ia/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(openTestDB(t), zap.NewNop())
	require.NoError(t, err)
	return store
}

func sampleAnalysis(offerID string, score int, createdAt time.Time) *domain.Analysis {
	return &domain.Analysis{
		Filename:      "cv.pdf",
		CandidateName: "Jean Dupont",
		ScoreGlobal:   score,
		Strengths:     []string{"Go"},
		Weaknesses:    []string{},
		MatchedSkills: []string{"Go", "SQL"},
		MissingSkills: []string{},
		CreatedAt:     createdAt,
		JobOfferID:    offerID,
	}
}

func TestCreateJobOfferGeneratesID(t *testing.T) {
	store := newTestStore(t)

	offer, err := store.CreateJobOffer("Développeur Python Senior", "Poste: Développeur Python")
	require.NoError(t, err)
	require.NotEmpty(t, offer.ID)
	require.False(t, offer.CreatedAt.IsZero())

	second, err := store.CreateJobOffer("Développeur Python Senior", "Poste: Développeur Python")
	require.NoError(t, err)
	require.NotEqual(t, offer.ID, second.ID)
}

func TestCreateAnalysisRequiresJobOffer(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateAnalysis(sampleAnalysis("", 50, time.Now()))
	require.Error(t, err)
}

func TestJobOfferStatsEmptyOffer(t *testing.T) {
	store := newTestStore(t)

	offer, err := store.CreateJobOffer("Offre vide", "aucun CV analysé")
	require.NoError(t, err)

	stats, err := store.JobOfferStats(offer.ID)
	require.NoError(t, err, "an offer without analyses must not error")
	require.Equal(t, int64(0), stats.Count)
	require.Equal(t, 0.0, stats.MeanScore)
	require.Equal(t, 0, stats.MaxScore)
	require.Equal(t, 0, stats.MinScore)
}

func TestJobOfferStatsAggregates(t *testing.T) {
	store := newTestStore(t)

	offer, err := store.CreateJobOffer("Offre", "contenu")
	require.NoError(t, err)

	for _, score := range []int{60, 85, 92} {
		require.NoError(t, store.CreateAnalysis(sampleAnalysis(offer.ID, score, time.Now())))
	}

	stats, err := store.JobOfferStats(offer.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Count)
	require.InDelta(t, 79.0, stats.MeanScore, 1e-9)
	require.Equal(t, 92, stats.MaxScore)
	require.Equal(t, 60, stats.MinScore)
}

func TestListAnalysesOrderAndFilter(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateJobOffer("Offre A", "contenu A")
	require.NoError(t, err)
	second, err := store.CreateJobOffer("Offre B", "contenu B")
	require.NoError(t, err)

	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateAnalysis(sampleAnalysis(first.ID, 50, base)))
	require.NoError(t, store.CreateAnalysis(sampleAnalysis(first.ID, 70, base.Add(time.Hour))))
	require.NoError(t, store.CreateAnalysis(sampleAnalysis(second.ID, 90, base.Add(2*time.Hour))))

	all, err := store.ListAnalyses("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 90, all[0].ScoreGlobal, "newest analysis comes first")
	require.Equal(t, 70, all[1].ScoreGlobal)
	require.Equal(t, 50, all[2].ScoreGlobal)

	filtered, err := store.ListAnalyses(first.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, a := range filtered {
		require.Equal(t, first.ID, a.JobOfferID)
	}

	// List fields round-trip through the JSON serializer.
	require.Equal(t, []string{"Go", "SQL"}, filtered[0].MatchedSkills)
}

func TestListJobOffersWithCounts(t *testing.T) {
	store := newTestStore(t)

	busy, err := store.CreateJobOffer("Offre active", "contenu")
	require.NoError(t, err)
	idle, err := store.CreateJobOffer("Offre sans analyse", "contenu")
	require.NoError(t, err)

	require.NoError(t, store.CreateAnalysis(sampleAnalysis(busy.ID, 80, time.Now())))
	require.NoError(t, store.CreateAnalysis(sampleAnalysis(busy.ID, 65, time.Now())))

	summaries, err := store.ListJobOffers()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[string]domain.JobOfferSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	require.Equal(t, int64(2), byID[busy.ID].AnalysisCount)
	require.Equal(t, int64(0), byID[idle.ID].AnalysisCount)
}

func TestLegacyBackfillLinksOrphanRows(t *testing.T) {
	db := openTestDB(t)

	// First startup creates the schema.
	_, err := NewStore(db, zap.NewNop())
	require.NoError(t, err)

	// A row from before the job-offer relation existed.
	orphan := sampleAnalysis("", 42, time.Now())
	require.NoError(t, db.Create(orphan).Error)

	// The next startup adopts it under the sentinel offer.
	store, err := NewStore(db, zap.NewNop())
	require.NoError(t, err)

	linked, err := store.ListAnalyses(legacyOfferID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	require.Equal(t, 42, linked[0].ScoreGlobal)

	offer, err := store.GetJobOffer(legacyOfferID)
	require.NoError(t, err)
	require.Equal(t, "Offre héritée (analyses antérieures)", offer.Title)

	stats, err := store.JobOfferStats(legacyOfferID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Count)
}
