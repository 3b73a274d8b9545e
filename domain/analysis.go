package domain

import "time"

// Analysis is the structured outcome of scoring one résumé against one job
// offer. A row exists only after a successful model call and a successful
// JSON validation; failed documents leave no Analysis behind.
//
// The sub-score maxima (40/30/15/15) and the relation between score_global
// and the sub-scores are advisory model output and are not enforced here.
type Analysis struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Filename           string    `gorm:"size:255;not null" json:"filename"`
	CandidateName      string    `gorm:"size:255" json:"candidate_name"`
	ScoreGlobal        int       `json:"score_global"`
	ScoreTechnique     int       `json:"score_technique"`
	ScoreExperience    int       `json:"score_experience"`
	ScoreFormation     int       `json:"score_formation"`
	ScoreSoftSkills    int       `json:"score_soft_skills"`
	Strengths          []string  `gorm:"serializer:json;type:text" json:"strengths"`
	Weaknesses         []string  `gorm:"serializer:json;type:text" json:"weaknesses"`
	MatchedSkills      []string  `gorm:"serializer:json;type:text" json:"matched_skills"`
	MissingSkills      []string  `gorm:"serializer:json;type:text" json:"missing_skills"`
	RelevantExperience string    `gorm:"type:text" json:"relevant_experience"`
	Recommendation     string    `gorm:"size:255" json:"recommendation"`
	Comments           string    `gorm:"type:text" json:"comments"`
	AnalysisMethod     string    `gorm:"size:255" json:"analysis_method"`
	PagesAnalyzed      int       `json:"pages_analyzed"`
	CreatedAt          time.Time `json:"created_at"`
	JobOfferID         string    `gorm:"size:36;not null;index" json:"job_offer_id"`
}

// AnalysisReport is the validated model response. The JSON tags are the exact
// keys the model is instructed to return; every field is populated, with
// documented defaults substituted for anything the model omitted.
type AnalysisReport struct {
	CandidateName      string   `json:"nom_prenom"`
	ScoreTechnique     int      `json:"score_technique"`
	ScoreExperience    int      `json:"score_experience"`
	ScoreFormation     int      `json:"score_formation"`
	ScoreSoftSkills    int      `json:"score_soft_skills"`
	ScoreGlobal        int      `json:"score_global"`
	Strengths          []string `json:"points_forts"`
	Weaknesses         []string `json:"points_faibles"`
	MatchedSkills      []string `json:"competences_matchees"`
	MissingSkills      []string `json:"competences_manquantes"`
	RelevantExperience string   `json:"experience_pertinente"`
	Recommendation     string   `json:"recommandation"`
	Comments           string   `json:"commentaires"`
	PagesAnalyzed      int      `json:"pages_analysees"`
	AnalysisMethod     string   `json:"methode_analyse"`
}

// ToAnalysis converts a validated report into the persisted row for the given
// source file and job offer.
func (r *AnalysisReport) ToAnalysis(filename, jobOfferID string) *Analysis {
	return &Analysis{
		Filename:           filename,
		CandidateName:      r.CandidateName,
		ScoreGlobal:        r.ScoreGlobal,
		ScoreTechnique:     r.ScoreTechnique,
		ScoreExperience:    r.ScoreExperience,
		ScoreFormation:     r.ScoreFormation,
		ScoreSoftSkills:    r.ScoreSoftSkills,
		Strengths:          r.Strengths,
		Weaknesses:         r.Weaknesses,
		MatchedSkills:      r.MatchedSkills,
		MissingSkills:      r.MissingSkills,
		RelevantExperience: r.RelevantExperience,
		Recommendation:     r.Recommendation,
		Comments:           r.Comments,
		AnalysisMethod:     r.AnalysisMethod,
		PagesAnalyzed:      r.PagesAnalyzed,
		CreatedAt:          time.Now(),
		JobOfferID:         jobOfferID,
	}
}
