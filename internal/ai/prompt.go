package ai

import (
	"fmt"
	"strings"

	"github.com/predictos/predictd/internal/domain"
)

const defaultQuestion = "Should I buy YES or NO on this prediction market?"

// BuildAnalysisPrompt renders the market snapshot and optional user question
// into the structured prompt sent to every provider. The prompt pins the
// exact JSON shape the gateway parses.
func BuildAnalysisPrompt(snap *domain.Snapshot, question string) string {
	if question == "" {
		question = defaultQuestion
	}

	var outcomes strings.Builder
	for _, o := range snap.Outcomes {
		vol := "n/a"
		if o.Volume24 != nil {
			vol = fmt.Sprintf("%.2f", *o.Volume24)
		}
		fmt.Fprintf(&outcomes, "  - %s: $%.4f (volume: %s)\n", o.Name, o.Price, vol)
	}

	return fmt.Sprintf(`You are an expert prediction market analyst. Analyze the following market data and provide a recommendation.

Market Question: %s
Platform: %s
Volume: %s
Liquidity: %s

Outcomes:
%s
User Question: %s

Provide your analysis in the following JSON format:
{
  "recommendation": "BUY_YES" | "BUY_NO" | "NO_TRADE",
  "confidence": 0.0-1.0,
  "reasoning": "Detailed explanation of your analysis",
  "key_factors": ["factor1", "factor2", ...]
}

Be concise but thorough. Focus on market dynamics, liquidity, and value opportunities.`,
		snap.Question,
		snap.Platform,
		formatOptional(snap.Volume),
		formatOptional(snap.Liquidity),
		outcomes.String(),
		question,
	)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
