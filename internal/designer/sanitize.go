package designer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/architai/server/architai/sessions"
)

// coerces a loosely shaped model response into a complete Design
func SanitizeDesign(raw map[string]any) *sessions.Design {
	return &sessions.Design{
		Summary:          stringify(raw["summary"]),
		Components:       sanitizeComponents(raw["components"]),
		DBSchema:         sanitizeSchema(raw["db_schema"]),
		Mermaid:          stringify(raw["mermaid"]),
		TechStack:        stringList(raw["tech_stack"]),
		IntegrationSteps: stringList(raw["integration_steps"]),
		Rationale:        stringify(raw["rationale"]),
		DiagramURL:       stringify(raw["diagram_url"]),
		Diagrams:         sanitizeDiagrams(raw["diagrams"]),
	}
}

func sanitizeSchema(v any) string {
	switch schema := v.(type) {
	case map[string]any:
		b, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return ""
		}

		return string(b)
	case []any:
		lines := make([]string, 0, len(schema))
		for _, item := range schema {
			lines = append(lines, stringify(item))
		}

		return strings.Join(lines, "\n")
	default:
		return stringify(v)
	}
}

func sanitizeDiagrams(v any) []sessions.Diagram {
	diagrams := []sessions.Diagram{}

	switch d := v.(type) {
	case map[string]any:
		for _, name := range sortedKeys(d) {
			diagrams = append(diagrams, sessions.Diagram{Name: name, Content: stringify(d[name])})
		}
	case []any:
		for i, item := range d {
			switch entry := item.(type) {
			case string:
				diagrams = append(diagrams, sessions.Diagram{Name: fmt.Sprintf("diagram_%d", i+1), Content: entry})
			case map[string]any:
				diagrams = append(diagrams, sessions.Diagram{
					Name:        firstString(entry, "name", "title"),
					Type:        stringify(entry["type"]),
					Description: stringify(entry["description"]),
					Content:     firstString(entry, "content", "code", "mermaid"),
				})
			}
		}
	}

	return diagrams
}

func sanitizeComponents(v any) []sessions.Component {
	components := []sessions.Component{}

	switch c := v.(type) {
	case []any:
		for _, item := range c {
			switch entry := item.(type) {
			case string:
				components = append(components, newComponent(entry, ""))
			case map[string]any:
				components = append(components, sanitizeComponent(entry, ""))
			}
		}
	case map[string]any:
		for _, name := range sortedKeys(c) {
			switch entry := c[name].(type) {
			case map[string]any:
				components = append(components, sanitizeComponent(entry, name))
			default:
				components = append(components, newComponent(name, stringify(entry)))
			}
		}
	}

	return components
}

func newComponent(name, description string) sessions.Component {
	return sessions.Component{
		Name:        name,
		Description: description,
		Details: sessions.ComponentDetails{
			TechnologyStack:  []string{},
			Responsibilities: []string{},
		},
	}
}

func sanitizeComponent(raw map[string]any, fallbackName string) sessions.Component {
	name := stringify(raw["name"])
	if name == "" {
		name = fallbackName
	}

	comp := newComponent(name, stringify(raw["description"]))

	if details, ok := raw["details"].(map[string]any); ok {
		comp.Details.TechnologyStack = stringList(details["technology_stack"])
		comp.Details.Responsibilities = stringList(details["responsibilities"])
	}

	// models sometimes put the stack directly on the component
	comp.Details.TechnologyStack = append(comp.Details.TechnologyStack, stringList(raw["technology"])...)

	return comp
}

// list of strings from a list, a single string or a key/value object
func stringList(v any) []string {
	items := []string{}

	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s := stringify(item); s != "" {
				items = append(items, s)
			}
		}
	case string:
		if list != "" {
			items = append(items, list)
		}
	case map[string]any:
		for _, key := range sortedKeys(list) {
			items = append(items, fmt.Sprintf("%s: %s", key, stringify(list[key])))
		}
	case float64, bool:
		items = append(items, stringify(list))
	}

	return items
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}

		return string(b)
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringify(m[key]); s != "" {
			return s
		}
	}

	return ""
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
