package models

// ChatResponseType discriminates chat replies. Only ResponseSuccess carries data.
type ChatResponseType string

const (
	ResponseSuccess ChatResponseType = "success"
	ResponseChat    ChatResponseType = "chat"
	ResponseError   ChatResponseType = "error"
)

// ChatRequest is the body of a chat turn sent to the backend.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the backend answer to one chat turn.
type ChatResponse struct {
	Type    ChatResponseType `json:"type,omitempty"`
	Message string           `json:"message"`
	Data    *AssetRecord     `json:"data,omitempty"`
}

// IsCreation reports whether the reply announces a newly persisted record.
func (r ChatResponse) IsCreation() bool {
	return r.Type == ResponseSuccess
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in the assistant transcript.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
