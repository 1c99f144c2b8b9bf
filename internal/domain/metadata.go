package domain

// Attribute is one trait of a token's off-chain metadata. Order is
// preserved from the source document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the normalized off-chain JSON document for a token.
// Degraded is set when every gateway failed and the remaining fields
// are synthesized placeholders.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Collection  string      `json:"collection"`
	Degraded    bool        `json:"error,omitempty"`
}
