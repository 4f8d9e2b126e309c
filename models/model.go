package models

// Model describes one entry in the enumerated model set surfaced to the UI.
// The sampling settings mirror what the Together API accepts for the model.
type Model struct {
	// Identification
	ID   string `json:"id" yaml:"-"`      // e.g. "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"
	Name string `json:"name" yaml:"name"` // Display name for the selector

	// Sampling defaults
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`

	// Token limits. Together constraint: prompt tokens + max_tokens <= 8193,
	// so neither limit may be raised above 8192.
	MaxTokens      int `json:"max_tokens" yaml:"max_tokens"`
	MaxTokensQuick int `json:"-" yaml:"max_tokens_quick"`

	// Features
	SupportsFunctions bool `json:"-" yaml:"supports_functions"`
}

// Registry manages the enumerated model set. Registration order is preserved
// so the UI selector is stable across restarts.
type Registry struct {
	models map[string]*Model
	order  []string
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]*Model),
	}
}

// Register adds a model to the registry. Re-registering an ID replaces the
// entry without changing its position.
func (r *Registry) Register(model *Model) {
	if _, exists := r.models[model.ID]; !exists {
		r.order = append(r.order, model.ID)
	}
	r.models[model.ID] = model
}

// Get retrieves a model by ID.
func (r *Registry) Get(id string) (*Model, bool) {
	model, exists := r.models[id]
	return model, exists
}

// List returns all registered models in registration order.
func (r *Registry) List() []*Model {
	models := make([]*Model, 0, len(r.order))
	for _, id := range r.order {
		models = append(models, r.models[id])
	}
	return models
}

// Default returns the model used when a client does not specify one.
func (r *Registry) Default() *Model {
	if len(r.order) == 0 {
		return nil
	}
	return r.models[r.order[0]]
}

// Builtin returns the registry with the stock Together model set. A
// config/models.yaml file, when present, replaces this.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(&Model{
		ID:                "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
		Name:              "Llama 3.3 70B",
		Temperature:       0.7,
		TopP:              0.9,
		MaxTokens:         2048,
		MaxTokensQuick:    256,
		SupportsFunctions: true,
	})
	r.Register(&Model{
		ID:                "deepseek-ai/DeepSeek-R1-Distill-Llama-70B-free",
		Name:              "DeepSeek R1",
		Temperature:       0.6,
		TopP:              0.95,
		MaxTokens:         2048,
		MaxTokensQuick:    256,
		SupportsFunctions: false,
	})
	return r
}
