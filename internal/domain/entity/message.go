package entity

type MessageRole string

const (
	RoleSystem MessageRole = "system"
	RoleUser   MessageRole = "user"
)

// Message is one entry of the generation context window.
type Message struct {
	Role    MessageRole
	Content string
}
