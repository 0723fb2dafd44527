package model

// Role enumerates the two account roles known to the quiz platform.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Identity is the user identity derived from the access token claims.
type Identity struct {
	SubjectID int64  `json:"subject_id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

// Session is the credential and identity bundle held for one browser session.
// It is owned by the session store; everything else receives it read-only per
// request via the guard middleware.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Identity     Identity `json:"identity"`
}

// LoginRequest is the credential payload from the login form.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=150"`
	Password string `json:"password" binding:"required,min=1"`
}

// RegisterRequest is the payload from the registration form.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required,oneof=student teacher"`
}

// LoginResult is the token bundle returned by the upstream identity endpoint.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
