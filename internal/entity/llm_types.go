package entity

// GenerateContentRequest is the minimal generate-content payload: one user
// turn with a single text part.
type GenerateContentRequest struct {
	Contents []LLMContent `json:"contents"`
}

// LLMContent is one conversational turn sent to or received from the model.
type LLMContent struct {
	Parts []LLMPart `json:"parts"`
	Role  string    `json:"role,omitempty"`
}

// LLMPart is a single text fragment of a turn.
type LLMPart struct {
	Text string `json:"text"`
}

// GenerateContentResponse carries the model candidates; only the first
// candidate's first part is consumed.
type GenerateContentResponse struct {
	Candidates []LLMCandidate `json:"candidates"`
}

// LLMCandidate is one generated completion.
type LLMCandidate struct {
	Content      LLMContent `json:"content"`
	FinishReason string     `json:"finishReason,omitempty"`
}
