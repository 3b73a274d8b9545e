package analyzer

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/kkratossdead/Cv-Ia/domain"
	"github.com/kkratossdead/Cv-Ia/logger"
)

const previewLen = 200

// Usage carries the token counters reported by the provider for one request.
type Usage struct {
	PromptTokens     int `json:"prompt"`
	CompletionTokens int `json:"completion"`
	TotalTokens      int `json:"total"`
}

// ModelOutput is the raw result of one vision model call.
type ModelOutput struct {
	Text  string
	Usage Usage
}

// Rasterizer converts a PDF byte buffer into ordered page images.
type Rasterizer interface {
	Rasterize(data []byte) ([]image.Image, error)
}

// VisionClient submits page images plus the built prompt to the remote model
// in a single request and returns the raw text with token usage.
type VisionClient interface {
	Analyze(ctx context.Context, images []image.Image, prompt string) (*ModelOutput, error)
	Model() string
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	CreateJobOffer(title, content string) (*domain.JobOffer, error)
	CreateAnalysis(a *domain.Analysis) error
}

// AnalysisCompleted notifies downstream consumers that one analysis row was
// persisted.
type AnalysisCompleted struct {
	AnalysisID  uint   `json:"analysis_id"`
	JobOfferID  string `json:"job_offer_id"`
	Filename    string `json:"filename"`
	ScoreGlobal int    `json:"score_global"`
}

// Publisher emits completed-analysis events. Publishing is best-effort and
// never fails a document.
type Publisher interface {
	PublishAnalysisCompleted(ev AnalysisCompleted) error
}

// Document is one uploaded PDF in a batch.
type Document struct {
	Filename string
	Data     []byte
}

// DocumentResult is the individual outcome for one document. Err is empty on
// success; RawText holds the unparsable model response when validation
// failed.
type DocumentResult struct {
	Filename string                 `json:"filename"`
	Report   *domain.AnalysisReport `json:"report,omitempty"`
	RawText  string                 `json:"raw_text,omitempty"`
	Usage    Usage                  `json:"tokens"`
	CostUSD  float64                `json:"cost_usd"`
	Err      string                 `json:"error,omitempty"`
}

// Succeeded reports whether the document produced a persisted Analysis.
func (r DocumentResult) Succeeded() bool { return r.Err == "" }

// BatchResult summarizes one batch run.
type BatchResult struct {
	JobOffer  *domain.JobOffer `json:"job_offer"`
	Results   []DocumentResult `json:"results"`
	Attempted int              `json:"attempted"`
	Succeeded int              `json:"succeeded"`
}

// Pipeline runs the per-document flow rasterize → prompt → model call →
// validate → persist → cost, strictly in order, one document at a time.
type Pipeline struct {
	rasterizer Rasterizer
	client     VisionClient
	store      Store
	publisher  Publisher
	logger     *zap.Logger
	inputRate  float64
	outputRate float64
}

// NewPipeline wires the pipeline. publisher may be nil when no queue is
// configured. Non-positive rates fall back to the published defaults.
func NewPipeline(rasterizer Rasterizer, client VisionClient, store Store, publisher Publisher, log *zap.Logger, inputRate, outputRate float64) *Pipeline {
	if inputRate <= 0 {
		inputRate = DefaultInputRate
	}
	if outputRate <= 0 {
		outputRate = DefaultOutputRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		rasterizer: rasterizer,
		client:     client,
		store:      store,
		publisher:  publisher,
		logger:     log,
		inputRate:  inputRate,
		outputRate: outputRate,
	}
}

// Run persists the job offer, then processes the documents sequentially in
// upload order. Per-document failures never abort the batch; only a failure
// to persist the job offer itself does, since every analysis must reference
// a durable offer id.
func (p *Pipeline) Run(ctx context.Context, title, offerText string, docs []Document) (*BatchResult, error) {
	offer, err := p.store.CreateJobOffer(title, offerText)
	if err != nil {
		return nil, fmt.Errorf("save job offer: %w", err)
	}

	batch := &BatchResult{
		JobOffer:  offer,
		Attempted: len(docs),
		Results:   make([]DocumentResult, 0, len(docs)),
	}

	for _, doc := range docs {
		result := p.processDocument(ctx, offer, offerText, doc)
		if result.Succeeded() {
			batch.Succeeded++
		}
		batch.Results = append(batch.Results, result)
	}

	p.logger.Info("batch finished",
		zap.String("job_offer_id", offer.ID),
		zap.Int("attempted", batch.Attempted),
		zap.Int("succeeded", batch.Succeeded),
	)

	return batch, nil
}

func (p *Pipeline) processDocument(ctx context.Context, offer *domain.JobOffer, offerText string, doc Document) DocumentResult {
	result := DocumentResult{Filename: doc.Filename}

	images, err := p.rasterizer.Rasterize(doc.Data)
	if err != nil {
		p.logger.Warn("rasterization failed", zap.String("filename", doc.Filename), zap.Error(err))
		result.Err = err.Error()
		return result
	}

	prompt := BuildPrompt(offerText, len(images))
	p.logger.Debug("model request",
		zap.String("filename", doc.Filename),
		zap.Int("pages", len(images)),
		zap.String("prompt_preview", logger.Truncate(prompt, previewLen)),
	)

	out, err := p.client.Analyze(ctx, images, prompt)
	if err != nil {
		p.logger.Warn("model call failed", zap.String("filename", doc.Filename), zap.Error(err))
		result.Err = err.Error()
		return result
	}

	result.Usage = out.Usage
	result.CostUSD = EstimateCost(out.Usage.PromptTokens, out.Usage.CompletionTokens, p.inputRate, p.outputRate)
	p.logger.Debug("model response",
		zap.String("filename", doc.Filename),
		zap.Int("total_tokens", out.Usage.TotalTokens),
		zap.String("response_preview", logger.Truncate(out.Text, previewLen)),
	)

	report, err := ParseReport(out.Text)
	if err != nil {
		p.logger.Warn("response validation failed", zap.String("filename", doc.Filename), zap.Error(err))
		result.RawText = out.Text
		result.Err = err.Error()
		return result
	}
	result.Report = report

	analysis := report.ToAnalysis(doc.Filename, offer.ID)
	if err := p.store.CreateAnalysis(analysis); err != nil {
		p.logger.Warn("persist failed", zap.String("filename", doc.Filename), zap.Error(err))
		result.Err = fmt.Sprintf("save analysis: %v", err)
		return result
	}

	if p.publisher != nil {
		ev := AnalysisCompleted{
			AnalysisID:  analysis.ID,
			JobOfferID:  offer.ID,
			Filename:    doc.Filename,
			ScoreGlobal: report.ScoreGlobal,
		}
		if err := p.publisher.PublishAnalysisCompleted(ev); err != nil {
			p.logger.Warn("event publish failed", zap.String("filename", doc.Filename), zap.Error(err))
		}
	}

	p.logger.Info("document analyzed",
		zap.String("filename", doc.Filename),
		zap.String("job_offer_id", offer.ID),
		zap.Int("score_global", report.ScoreGlobal),
		zap.Float64("cost_usd", result.CostUSD),
	)

	return result
}
