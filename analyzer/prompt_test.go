package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPromptDeterministic(t *testing.T) {
	offer := "Poste: Développeur Python\nCompétences requises: Python, Django, API REST"

	first := BuildPrompt(offer, 3)
	second := BuildPrompt(offer, 3)

	require.Equal(t, first, second, "identical inputs must yield a byte-identical prompt")
}

func TestBuildPromptEmbedsInputs(t *testing.T) {
	offer := "Senior Backend Engineer chez Tech Corp"

	prompt := BuildPrompt(offer, 2)

	require.Contains(t, prompt, offer, "job offer text must appear verbatim")
	require.Contains(t, prompt, `"pages_analysees": 2,`, "page count must be embedded literally")
	require.NotContains(t, prompt, "{{PAGE_COUNT}}")
	require.NotContains(t, prompt, "{{JOB_OFFER}}")
}

func TestBuildPromptNamesEverySchemaField(t *testing.T) {
	prompt := BuildPrompt("offre", 1)

	fields := []string{
		"nom_prenom",
		"score_technique",
		"score_experience",
		"score_formation",
		"score_soft_skills",
		"score_global",
		"points_forts",
		"points_faibles",
		"competences_matchees",
		"competences_manquantes",
		"experience_pertinente",
		"recommandation",
		"commentaires",
		"pages_analysees",
		"methode_analyse",
	}
	for _, field := range fields {
		require.Contains(t, prompt, `"`+field+`"`, "prompt must name field %s", field)
	}

	require.Contains(t, prompt, "sans en ajouter d'autres", "prompt must forbid extra fields")
	require.Contains(t, prompt, "sous-objets", "prompt must forbid nested fields")
}

func TestBuildPromptStatesRubric(t *testing.T) {
	prompt := BuildPrompt("offre", 1)

	require.Contains(t, prompt, "40 points max")
	require.Contains(t, prompt, "30 points max")
	require.True(t, strings.Count(prompt, "15 points max") >= 2, "both 15-point budgets must be stated")
}
