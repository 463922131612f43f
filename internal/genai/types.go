package genai

import (
	"context"
)

// GenerateFallback is returned whenever the generation call fails. The
// interview loop classifies it like any other reply, keeping the session
// recoverable.
const GenerateFallback = "I'm having trouble connecting to the neural network right now. Please try again later."

// DecisionReview is the neutral evaluation decision used when the
// evaluator cannot produce a verdict.
const DecisionReview = "REVIEW"

// Evaluation is the structured verdict over a finished transcript.
type Evaluation struct {
	// Score is 0-100.
	Score int `json:"score"`
	// Summary is a short free-text assessment.
	Summary string `json:"summary"`
	// Decision is the evaluator's recommendation (e.g. SELECT, REJECT,
	// REVIEW). Advisory only; the admin makes the actual call.
	Decision string `json:"decision"`
}

// NeutralEvaluation is the defined default when evaluation fails.
func NeutralEvaluation() Evaluation {
	return Evaluation{
		Score:    50,
		Summary:  "Evaluation failed due to technical error.",
		Decision: DecisionReview,
	}
}

// Collaborator is the external text-generation service as seen by the
// interview session controller.
type Collaborator interface {
	// Generate produces the next interviewer reply. It never returns an
	// error: failures yield GenerateFallback.
	Generate(ctx context.Context, prompt, systemInstruction string) string

	// Evaluate scores a rendered transcript. It never returns an error:
	// failures yield NeutralEvaluation.
	Evaluate(ctx context.Context, transcript string) Evaluation
}
