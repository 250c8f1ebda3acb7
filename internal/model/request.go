package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AssignOwnerRequest struct {
	UserID string `json:"user_id"`
}

// DeleteRequest is the optional body of an archive-first delete.
type DeleteRequest struct {
	Note string `json:"note"`
}

// Actor identifies who is performing a request.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	IP     string `json:"ip,omitempty"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ID returns the actor's user id, or nil for system-initiated actions.
func (a Actor) ID() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
