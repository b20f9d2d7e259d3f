package domain

// ModelOption is a selectable hosted model.
type ModelOption struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Hosted model identifiers.
const (
	ModelGPTOSS   = "openai/gpt-oss-20b:free"
	ModelDeepseek = "deepseek/deepseek-chat-v3-0324:free"
	ModelQwen     = "qwen/qwen3-coder:free"

	// DefaultModel answers questions when no model is selected.
	DefaultModel = ModelGPTOSS

	// DefaultVisionModel summarises video frames.
	DefaultVisionModel = "nvidia/nemotron-nano-12b-v2-vl:free"
)

// AllowedModels returns the models a user may select for answering, in
// display order.
func AllowedModels() []ModelOption {
	return []ModelOption{
		{Label: "GPT-OSS", ID: ModelGPTOSS},
		{Label: "Deepseek", ID: ModelDeepseek},
		{Label: "Qwen3 Coder", ID: ModelQwen},
	}
}

// IsAllowedModel reports whether id is in the allow-list.
func IsAllowedModel(id string) bool {
	for _, m := range AllowedModels() {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ModelCatalog is the set of models the configured provider can answer
// with, and the one used when none is selected.
type ModelCatalog struct {
	Options []ModelOption `json:"models"`
	Default string        `json:"default"`
}

// HostedCatalog returns the hosted allow-list with DefaultModel selected.
func HostedCatalog() ModelCatalog {
	return ModelCatalog{Options: AllowedModels(), Default: DefaultModel}
}

// LocalCatalog returns a catalog holding a single locally served model.
func LocalCatalog(id string) ModelCatalog {
	return ModelCatalog{Options: []ModelOption{{Label: id, ID: id}}, Default: id}
}

// WithDefault selects id as the default, adding it to the front of the
// options when it is not already listed. An empty id leaves c unchanged.
func (c ModelCatalog) WithDefault(id string) ModelCatalog {
	if id == "" {
		return c
	}
	out := ModelCatalog{Default: id}
	if !c.Allows(id) {
		out.Options = append(out.Options, ModelOption{Label: id, ID: id})
	}
	out.Options = append(out.Options, c.Options...)
	return out
}

// Allows reports whether id is one of the catalog's options.
func (c ModelCatalog) Allows(id string) bool {
	for _, m := range c.Options {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Resolve returns the model to use for a selection: the default when id is
// empty, otherwise id itself if the catalog allows it.
func (c ModelCatalog) Resolve(id string) (string, bool) {
	if id == "" {
		id = c.Default
	}
	return id, c.Allows(id)
}

// Label returns the display label of id, or id when it is not listed.
func (c ModelCatalog) Label(id string) string {
	for _, m := range c.Options {
		if m.ID == id {
			return m.Label
		}
	}
	return id
}
