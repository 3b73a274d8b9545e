package analyzer

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed prompt.txt
var promptTemplate string

// BuildPrompt composes the strict-schema scoring instruction for one
// document. It embeds the page count and the job offer text verbatim and is
// fully deterministic: identical inputs produce a byte-identical prompt.
func BuildPrompt(jobOffer string, pageCount int) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{PAGE_COUNT}}", strconv.Itoa(pageCount))
	return strings.ReplaceAll(prompt, "{{JOB_OFFER}}", jobOffer)
}
