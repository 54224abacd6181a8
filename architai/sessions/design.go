package sessions

// structured system design produced when a session is finalized
type Design struct {
	Summary          string      `json:"summary"`
	Components       []Component `json:"components"`
	DBSchema         string      `json:"db_schema"`
	Mermaid          string      `json:"mermaid"`
	TechStack        []string    `json:"tech_stack"`
	IntegrationSteps []string    `json:"integration_steps"`
	Rationale        string      `json:"rationale"`
	DiagramURL       string      `json:"diagram_url"`
	Diagrams         []Diagram   `json:"diagrams"`
}

type Component struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Details     ComponentDetails `json:"details"`
}

type ComponentDetails struct {
	TechnologyStack  []string `json:"technology_stack"`
	Responsibilities []string `json:"responsibilities"`
}

type Diagram struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}
