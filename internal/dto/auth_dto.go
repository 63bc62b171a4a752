package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest / RegisterRequest length rules (username >= 3 trimmed,
// password >= 6) are enforced in the service so they surface as 400s,
// matching the legacy API; the tags only reject missing fields.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	Mensaje  string `json:"mensaje"`
	Admin    bool   `json:"admin"`
	Username string `json:"username"`
}

type CheckAuthResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

type PerfilResponse struct {
	ID      string `json:"id"`
	Usuario string `json:"usuario"`
	Admin   bool   `json:"admin"`
}

// UsuarioAdminResponse is the admin back-office user listing row.
type UsuarioAdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

type ToggleAdminResponse struct {
	ID    string `json:"id"`
	Admin bool   `json:"admin"`
}
