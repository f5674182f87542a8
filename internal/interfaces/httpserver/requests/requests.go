// Package requests contains HTTP request DTOs for dm-server.
package requests

// RegisterRequest is the registration form. The confirmation is accepted as
// either cpassword or confirmPassword.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	CPassword       string `json:"cpassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Confirmation returns whichever confirmation field the client sent.
func (r *RegisterRequest) Confirmation() string {
	if r.ConfirmPassword != "" {
		return r.ConfirmPassword
	}
	return r.CPassword
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	Receiver         string `json:"receiver" binding:"required"`
	Content          string `json:"content" binding:"required"`
	ReplyToMessageID string `json:"replyToMessageId,omitempty"`
}
