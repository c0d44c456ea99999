package dto

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the credentials form.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest changes display fields; empty fields stay untouched.
type UpdateProfileRequest struct {
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// WSTicketResponse carries the one-shot WebSocket handshake ticket.
type WSTicketResponse struct {
	Ticket string `json:"ticket"`
}
