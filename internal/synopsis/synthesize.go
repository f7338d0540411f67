// Package synopsis produces the narrative prose summary for a finished
// record. A synopsis is a convenience, not load-bearing: every failure path
// degrades to locally assembled text instead of an error.
package synopsis

import (
	"context"
	"strings"
	"time"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/prompts"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// DefaultTimeout bounds the synopsis call.
const DefaultTimeout = 10 * time.Second

// Generator renders synopses via the language-model service.
type Generator struct {
	client  llm.Client
	timeout time.Duration
}

// NewGenerator creates a generator with the default timeout.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-call timeout.
func (g *Generator) WithTimeout(d time.Duration) *Generator {
	g.timeout = d
	return g
}

// Synthesize returns prose for the record. templateOverride, when non-empty,
// replaces the stock prompt; it uses the same {{.Placeholder}} syntax. The
// second return value reports whether the local fallback was used.
func (g *Generator) Synthesize(ctx context.Context, narrative string, record *types.ExtractedRecord, templateOverride string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	template := templateOverride
	if strings.TrimSpace(template) == "" {
		template = prompts.MustGet("synopsis.json", "default-synopsis")
	}

	prompt := prompts.Format(template, map[string]string{
		"Transcript":              narrative,
		"Summary":                 record.Summary,
		"Category":                record.Category,
		"ProfessionalInterests":   strings.Join(record.ProfessionalInterests, ", "),
		"PersonalInterests":       strings.Join(record.PersonalInterests, ", "),
		"PhilanthropicPriorities": strings.Join(record.PhilanthropicPriorities, ", "),
	})

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		logging.New("synopsis").WithError(err).Warn("synopsis call failed, using local fallback")
		return Fallback(narrative, record), true
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback(narrative, record), true
	}

	return text, false
}

// Fallback assembles a plain-text synopsis from the summary and narrative.
func Fallback(narrative string, record *types.ExtractedRecord) string {
	var sb strings.Builder
	if record.Summary != "" {
		sb.WriteString(record.Summary)
		sb.WriteString("\n\n")
	}
	sb.WriteString(narrative)
	return strings.TrimSpace(sb.String())
}
