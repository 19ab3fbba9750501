package loam

// WorkflowMetadata is the frontmatter (or JSON/YAML body) of a workflow document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type WorkflowMetadata struct {
	ID          string         `json:"id" mapstructure:"id"`
	Name        string         `json:"name" mapstructure:"name"`
	Description string         `json:"description" mapstructure:"description"`
	Category    string         `json:"category" mapstructure:"category"`
	Tags        []string       `json:"tags" mapstructure:"tags"`
	Steps       []StepMetadata `json:"steps" mapstructure:"steps"`
}

// StepMetadata describes one step. DependsOn and After are sugar for
// Dependencies.
type StepMetadata struct {
	ID           string         `json:"id" mapstructure:"id"`
	Name         string         `json:"name" mapstructure:"name"`
	Type         string         `json:"type" mapstructure:"type"`
	Parameters   map[string]any `json:"parameters" mapstructure:"parameters"`
	Dependencies []string       `json:"dependencies" mapstructure:"dependencies"`
	DependsOn    []string       `json:"depends_on" mapstructure:"depends_on"`
	After        string         `json:"after" mapstructure:"after"`
	Optional     bool           `json:"optional" mapstructure:"optional"`
}
