package model

// RunReport summarizes one augmentation pass over a file.
type RunReport struct {
	Path          string   `json:"path"`
	Container     string   `json:"container"`
	Events        int      `json:"events"`
	Methods       int      `json:"methods"`
	SkippedTopics []string `json:"skipped_topics,omitempty"`
	Changed       bool     `json:"changed"`
}
