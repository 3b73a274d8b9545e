package analyzer

import "time"

// ExportMetadata describes one exported batch. The JSON keys mirror the
// historical export format consumed by existing tooling.
type ExportMetadata struct {
	Date              string `json:"date"`
	DocumentsAnalyzed int    `json:"nombre_cv_analyses"`
	Model             string `json:"modele_utilise"`
}

// ExportEntry is one per-document result. Analysis holds the parsed report
// when validation succeeded and the raw model text otherwise.
type ExportEntry struct {
	Filename string  `json:"filename"`
	Analysis any     `json:"analysis"`
	Tokens   Usage   `json:"tokens"`
	CostUSD  float64 `json:"cost_usd"`
}

// ExportDocument is the downloadable artifact for one batch run.
type ExportDocument struct {
	Metadata ExportMetadata `json:"metadata"`
	JobOffer string         `json:"job_offer"`
	Analyses []ExportEntry  `json:"analyses"`
}

// BuildExport assembles the export artifact from a batch result. Documents
// whose model call never returned (document or model errors) are omitted;
// validation failures are included with their raw text.
func BuildExport(batch *BatchResult, model string, now time.Time) *ExportDocument {
	entries := make([]ExportEntry, 0, len(batch.Results))
	for _, result := range batch.Results {
		if result.Report == nil && result.RawText == "" {
			continue
		}
		entry := ExportEntry{
			Filename: result.Filename,
			Tokens:   result.Usage,
			CostUSD:  result.CostUSD,
		}
		if result.Report != nil {
			entry.Analysis = result.Report
		} else {
			entry.Analysis = result.RawText
		}
		entries = append(entries, entry)
	}

	return &ExportDocument{
		Metadata: ExportMetadata{
			Date:              now.Format("02/01/2006 15:04:05"),
			DocumentsAnalyzed: len(entries),
			Model:             model,
		},
		JobOffer: batch.JobOffer.Content,
		Analyses: entries,
	}
}
