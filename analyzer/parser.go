package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kkratossdead/Cv-Ia/domain"
)

// MissingText is the placeholder stored for any text field the model omitted.
const MissingText = "Non spécifié"

// ParseReport validates raw model output. It strips an optional code fence,
// parses the remainder as JSON and fills a complete AnalysisReport using the
// field defaults: 0 for scores, empty list for list fields, MissingText for
// text fields. A response that does not parse as JSON yields a
// *domain.ValidationError carrying the raw text.
func ParseReport(raw string) (*domain.AnalysisReport, error) {
	cleaned := cleanJSONResponse(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &domain.ValidationError{Raw: raw, Err: fmt.Errorf("parse model response: %w", err)}
	}

	return &domain.AnalysisReport{
		CandidateName:      textField(fields, "nom_prenom"),
		ScoreTechnique:     scoreField(fields, "score_technique"),
		ScoreExperience:    scoreField(fields, "score_experience"),
		ScoreFormation:     scoreField(fields, "score_formation"),
		ScoreSoftSkills:    scoreField(fields, "score_soft_skills"),
		ScoreGlobal:        scoreField(fields, "score_global"),
		Strengths:          listField(fields, "points_forts"),
		Weaknesses:         listField(fields, "points_faibles"),
		MatchedSkills:      listField(fields, "competences_matchees"),
		MissingSkills:      listField(fields, "competences_manquantes"),
		RelevantExperience: textField(fields, "experience_pertinente"),
		Recommendation:     textField(fields, "recommandation"),
		Comments:           textField(fields, "commentaires"),
		PagesAnalyzed:      scoreField(fields, "pages_analysees"),
		AnalysisMethod:     textField(fields, "methode_analyse"),
	}, nil
}

// cleanJSONResponse removes a markdown code fence wrapping the JSON body and
// narrows the text to the outermost object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}

	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start != -1 && end != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}

func textField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return MissingText
	}
	switch val := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
		return MissingText
	default:
		return fmt.Sprintf("%v", val)
	}
}

func scoreField(fields map[string]any, key string) int {
	switch val := fields[key].(type) {
	case float64:
		return int(val)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

func listField(fields map[string]any, key string) []string {
	items, ok := fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			out = append(out, val)
		default:
			out = append(out, fmt.Sprintf("%v", val))
		}
	}
	return out
}
