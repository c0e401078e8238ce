package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// maxReportedViolations caps how many violations are spelled out in Error().
const maxReportedViolations = 5

// ValidationError lists every place a value diverged from the blueprint schema.
type ValidationError struct {
	Violations []models.FieldProblem
}

func (e *ValidationError) Error() string {
	n := len(e.Violations)
	noun := "violation"
	if n != 1 {
		noun = inflection.Plural(noun)
	}

	shown := e.Violations
	if len(shown) > maxReportedViolations {
		shown = shown[:maxReportedViolations]
	}
	parts := make([]string, len(shown))
	for i, v := range shown {
		parts[i] = v.String()
	}
	msg := fmt.Sprintf("blueprint does not match schema (%d %s): %s", n, noun, strings.Join(parts, "; "))
	if n > len(shown) {
		msg += fmt.Sprintf("; and %d more", n-len(shown))
	}
	return msg
}

// Paths returns the path of every violation, in report order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		paths[i] = v.Path
	}
	return paths
}

// Validate checks an arbitrary decoded value (typically map[string]any from
// an LLM response) against the blueprint schema and returns it as typed
// content when it conforms. On failure the error is a *ValidationError.
func Validate(value any) (*models.BlueprintContent, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &ValidationError{Violations: []models.FieldProblem{{Path: "$", Reason: "value is not JSON-encodable"}}}
	}
	return ValidateJSON(data)
}

// ValidateJSON is Validate for raw JSON bytes.
func ValidateJSON(data []byte) (*models.BlueprintContent, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &ValidationError{Violations: []models.FieldProblem{{Path: "$", Reason: "invalid JSON: " + err.Error()}}}
	}

	w := &walker{}
	w.walk(BlueprintSchema(), decoded, "")
	if len(w.problems) > 0 {
		return nil, &ValidationError{Violations: w.problems}
	}

	var content models.BlueprintContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, &ValidationError{Violations: []models.FieldProblem{{Path: "$", Reason: err.Error()}}}
	}

	var problems []models.FieldProblem
	if d := content.UserFlowDiagram; d != nil {
		problems = append(problems, models.CheckFlowGraph(d.InitialNodes, d.InitialEdges,
			"user_flow_diagram.initialNodes", "user_flow_diagram.initialEdges")...)
	}
	if k := content.KanbanTickets; k != nil {
		problems = append(problems, models.CheckKanbanColumns(k.Columns, "kanban_tickets.columns")...)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Violations: problems}
	}

	return &content, nil
}

type walker struct {
	problems []models.FieldProblem
}

func (w *walker) fail(path, format string, args ...any) {
	if path == "" {
		path = "$"
	}
	w.problems = append(w.problems, models.FieldProblem{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (w *walker) walk(def *jsonschema.Definition, value any, path string) {
	switch def.Type {
	case jsonschema.Object:
		obj, ok := value.(map[string]any)
		if !ok {
			w.fail(path, "expected object, got %s", typeName(value))
			return
		}
		w.walkObject(def, obj, path)

	case jsonschema.Array:
		arr, ok := value.([]any)
		if !ok {
			w.fail(path, "expected array, got %s", typeName(value))
			return
		}
		if def.Items == nil {
			return
		}
		for i, item := range arr {
			w.walk(def.Items, item, fmt.Sprintf("%s[%d]", path, i))
		}

	case jsonschema.String:
		s, ok := value.(string)
		if !ok {
			w.fail(path, "expected string, got %s", typeName(value))
			return
		}
		if len(def.Enum) > 0 && !contains(def.Enum, s) {
			w.fail(path, "value %q is not one of %v", s, def.Enum)
			return
		}
		if nonEmptyPaths[path] && strings.TrimSpace(s) == "" {
			w.fail(path, "must not be empty")
		}

	case jsonschema.Number:
		if _, ok := value.(float64); !ok {
			w.fail(path, "expected number, got %s", typeName(value))
		}

	case jsonschema.Integer:
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			w.fail(path, "expected integer, got %s", typeName(value))
		}

	case jsonschema.Boolean:
		if _, ok := value.(bool); !ok {
			w.fail(path, "expected boolean, got %s", typeName(value))
		}
	}
}

func (w *walker) walkObject(def *jsonschema.Definition, obj map[string]any, path string) {
	for _, name := range def.Required {
		if _, ok := obj[name]; !ok {
			w.fail(joinPath(path, name), "required field is missing")
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	extra := additionalDefinition(def.AdditionalProperties)
	for _, key := range keys {
		if prop, ok := def.Properties[key]; ok {
			w.walk(&prop, obj[key], joinPath(path, key))
			continue
		}
		if extra != nil {
			w.walk(extra, obj[key], joinPath(path, key))
		}
		// Unknown keys without an additionalProperties schema are tolerated.
	}
}

func additionalDefinition(v any) *jsonschema.Definition {
	switch d := v.(type) {
	case jsonschema.Definition:
		return &d
	case *jsonschema.Definition:
		return d
	default:
		return nil
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
