package analyzer

// Published per-1000-token rates for the default model, in USD.
const (
	DefaultInputRate  = 0.00025
	DefaultOutputRate = 0.00200
)

// EstimateCost converts token counts into a monetary amount using the given
// per-1000-token rates. No rounding is applied; callers format for display.
func EstimateCost(promptTokens, completionTokens int, inputRate, outputRate float64) float64 {
	return float64(promptTokens)/1000*inputRate + float64(completionTokens)/1000*outputRate
}
