// Package schema defines the structural contract for LLM-generated blueprints
// and validates untrusted model output against it.
//
// The contract is declared once as a JSON Schema definition. The same
// definition is sent to the provider to request constrained output and is
// interpreted locally by Validate.
package schema

import (
	"github.com/sashabaranov/go-openai/jsonschema"
)

// BlueprintSchemaName is the name under which the schema is registered with
// the provider (response format name or tool name).
const BlueprintSchemaName = "project_blueprint"

// nonEmptyPaths lists string fields that must also be non-empty.
var nonEmptyPaths = map[string]bool{
	"platform.name":        true,
	"platform.tagline":     true,
	"platform.description": true,
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func num(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Number, Description: description}
}

func strList(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:        jsonschema.Array,
		Description: description,
		Items:       &jsonschema.Definition{Type: jsonschema.String},
	}
}

func object(props map[string]jsonschema.Definition, required ...string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   required,
	}
}

func listOf(item jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Array, Items: &item}
}

func stringMap(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Description:          description,
		AdditionalProperties: jsonschema.Definition{Type: jsonschema.String},
	}
}

func checklistStatusEnum() []string {
	return []string{"done", "in-progress", "pending"}
}

// BlueprintSchema returns a fresh copy of the blueprint JSON Schema.
func BlueprintSchema() *jsonschema.Definition {
	platform := object(map[string]jsonschema.Definition{
		"name":        str("Product name"),
		"tagline":     str("One-line pitch"),
		"description": str("Two to three sentence description of the product"),
	}, "name", "tagline", "description")

	market := object(map[string]jsonschema.Definition{
		"overall_score": num("Overall feasibility score from 0 to 10"),
		"metrics": listOf(object(map[string]jsonschema.Definition{
			"label":       str("Metric name"),
			"score":       num("Score from 0 to 10"),
			"description": str("Why the metric scored this way"),
		}, "label", "score", "description")),
	}, "overall_score", "metrics")

	coreFeatures := listOf(object(map[string]jsonschema.Definition{
		"name":        str("Feature name"),
		"description": str("What the feature does"),
	}, "name", "description"))

	technical := object(map[string]jsonschema.Definition{
		"recommended_expertise_level": str("e.g. Intermediate"),
		"development_timeline":        str("e.g. 3-4 months"),
		"team_size":                   str("e.g. 2-3 developers"),
		"suggested_tech_stack": object(map[string]jsonschema.Definition{
			"frontend":       stringMap("Category key to technology"),
			"backend":        stringMap("Category key to technology"),
			"infrastructure": stringMap("Category key to technology"),
		}, "frontend", "backend", "infrastructure"),
	}, "recommended_expertise_level", "development_timeline", "team_size", "suggested_tech_stack")

	revenue := object(map[string]jsonschema.Definition{
		"primary_streams":   strList("Revenue streams"),
		"pricing_structure": str("How pricing is organised"),
	}, "primary_streams", "pricing_structure")

	pricingPlans := listOf(object(map[string]jsonschema.Definition{
		"name":                str("Plan name"),
		"price":               str("Display price, e.g. $9/month"),
		"target":              str("Who the plan is for"),
		"features":            strList("Included features"),
		"limitations":         strList("Plan limitations"),
		"tag":                 str("Optional badge, e.g. Most Popular"),
		"additional_benefits": strList("Extra benefits"),
		"premium_features":    strList("Premium-only features"),
	}, "name", "price", "target", "features"))

	checklistItem := object(map[string]jsonschema.Definition{
		"id":    str("Checklist item id"),
		"label": str("Checklist item text"),
		"status": {
			Type: jsonschema.String,
			Enum: checklistStatusEnum(),
		},
	}, "id", "label", "status")

	node := object(map[string]jsonschema.Definition{
		"id":   str("Unique node id"),
		"type": str("Node renderer type"),
		"position": object(map[string]jsonschema.Definition{
			"x": num("Horizontal position"),
			"y": num("Vertical position"),
		}, "x", "y"),
		"data": object(map[string]jsonschema.Definition{
			"title":       str("Step title"),
			"description": str("Step description"),
			"checklist":   listOf(checklistItem),
		}, "title", "description", "checklist"),
	}, "id", "type", "position", "data")

	edge := object(map[string]jsonschema.Definition{
		"id":       str("Unique edge id"),
		"source":   str("Source node id"),
		"target":   str("Target node id"),
		"animated": {Type: jsonschema.Boolean},
		"label":    str("Optional edge label"),
	}, "id", "source", "target", "animated")

	userFlow := object(map[string]jsonschema.Definition{
		"description":  str("What the flow covers"),
		"initialNodes": listOf(node),
		"initialEdges": listOf(edge),
	}, "description", "initialNodes", "initialEdges")

	ticket := object(map[string]jsonschema.Definition{
		"id":           str("Ticket id unique across the board"),
		"title":        str("Ticket title"),
		"description":  str("Ticket description"),
		"priority":     str("critical, high, medium or low"),
		"story_points": num("Estimate in story points"),
		"assignee":     str("Optional assignee role"),
		"labels":       strList("Optional labels"),
	}, "id", "title", "description", "priority", "story_points")

	column := object(map[string]jsonschema.Definition{
		"title":   str("Column title"),
		"tickets": listOf(ticket),
	}, "title", "tickets")

	kanban := object(map[string]jsonschema.Definition{
		"description": str("What the board covers"),
		"columns": {
			Type:                 jsonschema.Object,
			Description:          "Column key (e.g. backlog, todo) to column",
			AdditionalProperties: column,
		},
	}, "description", "columns")

	root := object(map[string]jsonschema.Definition{
		"platform":                    platform,
		"market_feasibility_analysis": market,
		"suggested_improvements":      strList("Ways to strengthen the idea"),
		"core_features":               coreFeatures,
		"technical_requirements":      technical,
		"revenue_model":               revenue,
		"recommended_pricing_plans":   pricingPlans,
		"competitive_advantages":      strList("Competitive advantages"),
		"potential_challenges":        strList("Risks and challenges"),
		"success_metrics":             strList("How success is measured"),
		"user_flow_diagram":           userFlow,
		"kanban_tickets":              kanban,
	},
		"platform",
		"market_feasibility_analysis",
		"suggested_improvements",
		"core_features",
		"technical_requirements",
		"revenue_model",
		"recommended_pricing_plans",
		"competitive_advantages",
		"potential_challenges",
		"success_metrics",
		"user_flow_diagram",
		"kanban_tickets",
	)

	return &root
}
