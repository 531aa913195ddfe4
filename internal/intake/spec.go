package intake

import (
	"context"
	"strings"

	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

const (
	fallbackTitleLength = 80
	fallbackTitle       = "Community Idea"
	defaultAudience     = "general users"
	defaultPlatform     = "web"
)

// Spec is the structured description generated for a new idea.
type Spec struct {
	Title            string   `json:"title"`
	ProblemStatement string   `json:"problem_statement"`
	Tags             []string `json:"tags"`
	Features         []string `json:"features"`
	OpenQuestions    []string `json:"open_questions"`
}

// SpecGenerator turns a submission into a Spec.
type SpecGenerator interface {
	Generate(ctx context.Context, input *models.IdeaInput) (*Spec, error)
}

// FallbackGenerator produces a static Spec without any external call.
type FallbackGenerator struct{}

// Generate returns FallbackSpec(input).
func (FallbackGenerator) Generate(_ context.Context, input *models.IdeaInput) (*Spec, error) {
	return FallbackSpec(input), nil
}

// FallbackSpec builds a generic Spec from the raw submission.
func FallbackSpec(input *models.IdeaInput) *Spec {
	title := utils.FirstNRunes(input.RawInputText, fallbackTitleLength)
	if title == "" {
		title = fallbackTitle
	}
	audience := strings.TrimSpace(input.TargetUsers)
	if audience == "" {
		audience = defaultAudience
	}
	platform := strings.TrimSpace(input.Platform)
	if platform == "" {
		platform = defaultPlatform
	}

	return &Spec{
		Title:            title,
		ProblemStatement: "Build a " + platform + " product for " + audience + " based on the submitted idea.",
		Tags:             []string{"community", "spec"},
		Features: []string{
			"Idea submission form with optional context fields",
			"Generated requirement outline",
			"Public idea detail page with structured sections",
		},
		OpenQuestions: []string{
			"Should submitters be able to edit or delete ideas?",
			"Which similar ideas should be linked from the detail page?",
		},
	}
}
