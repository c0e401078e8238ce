package models

// BlueprintContent is the structured plan produced by the LLM.
//
// A freshly generated value always carries UserFlowDiagram and KanbanTickets.
// Once split for storage the blueprint row keeps everything else and both
// pointers are nil. Rows written before the split existed may still carry
// them, which is what bootstrap reads.
type BlueprintContent struct {
	Platform                  Platform                  `json:"platform"`
	MarketFeasibilityAnalysis MarketFeasibilityAnalysis `json:"market_feasibility_analysis"`
	SuggestedImprovements     []string                  `json:"suggested_improvements"`
	CoreFeatures              []CoreFeature             `json:"core_features"`
	TechnicalRequirements     TechnicalRequirements     `json:"technical_requirements"`
	RevenueModel              RevenueModel              `json:"revenue_model"`
	RecommendedPricingPlans   []PricingPlan             `json:"recommended_pricing_plans"`
	CompetitiveAdvantages     []string                  `json:"competitive_advantages"`
	PotentialChallenges       []string                  `json:"potential_challenges"`
	SuccessMetrics            []string                  `json:"success_metrics"`

	UserFlowDiagram *UserFlowDiagram `json:"user_flow_diagram,omitempty"`
	KanbanTickets   *KanbanTickets   `json:"kanban_tickets,omitempty"`
}

// Platform names and pitches the product.
type Platform struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// MarketFeasibilityAnalysis scores the idea overall and per metric.
type MarketFeasibilityAnalysis struct {
	OverallScore float64        `json:"overall_score"`
	Metrics      []MarketMetric `json:"metrics"`
}

// MarketMetric is one scored dimension of the feasibility analysis.
type MarketMetric struct {
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// CoreFeature is a headline feature of the product.
type CoreFeature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TechnicalRequirements describes the team and stack needed to build it.
type TechnicalRequirements struct {
	RecommendedExpertiseLevel string    `json:"recommended_expertise_level"`
	DevelopmentTimeline       string    `json:"development_timeline"`
	TeamSize                  string    `json:"team_size"`
	SuggestedTechStack        TechStack `json:"suggested_tech_stack"`
}

// TechStack maps category keys (e.g. "framework", "database") to choices.
type TechStack struct {
	Frontend       map[string]string `json:"frontend"`
	Backend        map[string]string `json:"backend"`
	Infrastructure map[string]string `json:"infrastructure"`
}

// RevenueModel lists how the product makes money.
type RevenueModel struct {
	PrimaryStreams   []string `json:"primary_streams"`
	PricingStructure string   `json:"pricing_structure"`
}

// PricingPlan is one recommended pricing tier.
type PricingPlan struct {
	Name               string   `json:"name"`
	Price              string   `json:"price"`
	Target             string   `json:"target"`
	Features           []string `json:"features"`
	Limitations        []string `json:"limitations,omitempty"`
	Tag                string   `json:"tag,omitempty"`
	AdditionalBenefits []string `json:"additional_benefits,omitempty"`
	PremiumFeatures    []string `json:"premium_features,omitempty"`
}

// UserFlowDiagram is the generated user-flow graph as emitted by the LLM.
type UserFlowDiagram struct {
	Description  string     `json:"description"`
	InitialNodes []FlowNode `json:"initialNodes"`
	InitialEdges []FlowEdge `json:"initialEdges"`
}

// KanbanTickets is the generated kanban board as emitted by the LLM.
type KanbanTickets struct {
	Description string                  `json:"description"`
	Columns     map[string]KanbanColumn `json:"columns"`
}
