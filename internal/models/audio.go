package models

// AudioGenerationResult is the structured outcome of a narration attempt.
// The coordinator always returns one; provider-level failures never
// propagate as errors to the caller.
type AudioGenerationResult struct {
	Success      bool              `json:"success"`
	Audio        []byte            `json:"-"`
	ProviderName string            `json:"providerName,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// AudioFailure builds a failed result with the given reason.
func AudioFailure(reason string) AudioGenerationResult {
	return AudioGenerationResult{Success: false, ErrorMessage: reason}
}
