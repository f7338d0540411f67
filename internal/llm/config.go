// Package llm provides the provider-abstracted client used for every remote
// inference call in the pipeline, plus shared response utilities.
package llm

// ModelTier selects the capability level for a call. Extraction and quality
// scoring run on cheaper tiers; synopsis prose gets the advanced tier.
type ModelTier string

const (
	// TierLite handles classification-grade tasks: quality scoring.
	TierLite ModelTier = "lite"
	// TierStandard handles structured output: narrative extraction.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles nuanced prose: synopsis generation.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM backend.
type Provider string

const (
	// ProviderGemini is the Google Gemini backend.
	ProviderGemini Provider = "gemini"
)

// Config maps model tiers to concrete model names for one provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the stock Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Model returns the model name for a tier, falling back to standard then lite
// when the requested tier is not configured.
func (c *Config) Model(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok {
		return m
	}
	if m, ok := c.Models[TierStandard]; ok {
		return m
	}
	return c.Models[TierLite]
}

// WithModel returns a copy of the config with one tier remapped.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{Provider: c.Provider, Models: make(map[ModelTier]string, len(c.Models))}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
