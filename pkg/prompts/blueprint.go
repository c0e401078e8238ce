package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

// Limits applied to the idea before it is sent to the model.
const (
	MaxTitleLength       = 100
	MinDescriptionLength = 10
	MaxDescriptionLength = 700
)

// Idea is the user's free-text project idea.
type Idea struct {
	Title       string
	Description string
}

// Normalize trims surrounding whitespace from both fields.
func (i Idea) Normalize() Idea {
	return Idea{
		Title:       strings.TrimSpace(i.Title),
		Description: strings.TrimSpace(i.Description),
	}
}

// ValidateIdea checks presence and length bounds. Lengths count characters,
// not bytes. Errors wrap apperrors.ErrInvalidInput.
func ValidateIdea(idea Idea) error {
	idea = idea.Normalize()

	if idea.Title == "" {
		return fmt.Errorf("%w: projectTitle is required", apperrors.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(idea.Title); n > MaxTitleLength {
		return fmt.Errorf("%w: projectTitle must be at most %d characters, got %d", apperrors.ErrInvalidInput, MaxTitleLength, n)
	}
	if idea.Description == "" {
		return fmt.Errorf("%w: projectDescription is required", apperrors.ErrInvalidInput)
	}
	n := utf8.RuneCountInString(idea.Description)
	if n < MinDescriptionLength {
		return fmt.Errorf("%w: projectDescription must be at least %d characters, got %d", apperrors.ErrInvalidInput, MinDescriptionLength, n)
	}
	if n > MaxDescriptionLength {
		return fmt.Errorf("%w: projectDescription must be at most %d characters, got %d", apperrors.ErrInvalidInput, MaxDescriptionLength, n)
	}
	return nil
}

// BlueprintSystemMessage is the system prompt sent with every blueprint request.
func BlueprintSystemMessage() string {
	return `You are a senior product strategist and software architect.
You turn short project ideas into complete, realistic SaaS blueprints.
You always answer with a single JSON object and nothing else: no markdown fences, no commentary.`
}

// BuildBlueprintPrompt creates the user prompt for blueprint generation.
// The output depends only on the idea; the same idea always yields the same prompt.
func BuildBlueprintPrompt(idea Idea) string {
	idea = idea.Normalize()
	var prompt strings.Builder

	prompt.WriteString("# Project Blueprint\n\n")
	prompt.WriteString("Create a detailed blueprint for the following project idea.\n\n")

	prompt.WriteString("## Idea\n\n")
	prompt.WriteString(fmt.Sprintf("Title: %s\n", idea.Title))
	prompt.WriteString(fmt.Sprintf("Description: %s\n\n", idea.Description))

	prompt.WriteString("## What to Produce\n\n")
	prompt.WriteString("1. **platform**: a product name, a one-line tagline and a 2-3 sentence description.\n")
	prompt.WriteString("2. **market_feasibility_analysis**: an overall score from 0 to 10 and 4-6 scored metrics (market size, competition, technical complexity, monetization potential...).\n")
	prompt.WriteString("3. **suggested_improvements**, **competitive_advantages**, **potential_challenges**, **success_metrics**: short lists of plain strings.\n")
	prompt.WriteString("4. **core_features**: 4-8 features with a name and a description.\n")
	prompt.WriteString("5. **technical_requirements**: expertise level, timeline, team size and a tech stack split into frontend, backend and infrastructure maps.\n")
	prompt.WriteString("6. **revenue_model** and **recommended_pricing_plans**: 2-4 plans; price is a display string such as \"$9/month\".\n")
	prompt.WriteString("7. **user_flow_diagram**: 5-10 nodes covering the main user journey, spaced vertically by about 150 units, connected by edges.\n")
	prompt.WriteString("8. **kanban_tickets**: columns backlog, todo, in-progress and done with the MVP work broken into tickets.\n\n")

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("- Every edge source and target MUST be the id of a node in initialNodes.\n")
	prompt.WriteString("- Ticket ids MUST be unique across all kanban columns (T-1, T-2, ...).\n")
	prompt.WriteString("- Checklist status MUST be one of: done, in-progress, pending. New projects start as pending.\n")
	prompt.WriteString("- Ticket priority is one of: critical, high, medium, low.\n")
	prompt.WriteString("- story_points and all scores are numbers, not strings.\n\n")

	prompt.WriteString("## Response Format\n\n")
	prompt.WriteString("Respond with a JSON object with exactly this shape:\n\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(ExampleBlueprintJSON)
	prompt.WriteString("\n```\n")

	return prompt.String()
}
