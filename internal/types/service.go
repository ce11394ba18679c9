package types

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategorySystem     Category = "system"
)

// Service represents a service definition
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Commands    []Command `json:"commands"`
}

// Command describes one named command exposed through the dispatcher
type Command struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
	// Infallible commands never report an error
	Infallible bool `json:"infallible,omitempty"`
}

// Parameter represents a command parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Stats contains dispatcher statistics
type Stats struct {
	TotalServices int            `json:"total_services"`
	TotalCommands int            `json:"total_commands"`
	Categories    map[string]int `json:"categories"`
}

// Version of the bridge reported by discovery and health endpoints
const Version = "0.1.0"
