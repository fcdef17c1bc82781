package model

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in the planning dialogue.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the append-only dialogue history, owned by the caller
// driving the loop and passed by value into gather/parse calls.
type Conversation []Turn

// Append returns a new conversation with the turn added.
func (c Conversation) Append(role, content string) Conversation {
	out := make(Conversation, len(c), len(c)+1)
	copy(out, c)
	return append(out, Turn{Role: role, Content: content})
}
