package model

// SignatureEntry is one exported event topic or function selector.
type SignatureEntry struct {
	Contract   string `json:"contract"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Selector   string `json:"selector"`
	SourceFile string `json:"source_file"`
}

const (
	EntryKindEvent    = "event"
	EntryKindFunction = "function"
)
