package constants

const (
	// SessionCookieName is the cookie that carries the session.
	SessionCookieName = "task_session"

	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"

	// SessionMaxAge is the session cookie lifetime in seconds (7 days).
	SessionMaxAge = 86400 * 7
)

// User-visible messages returned by the page router.
const (
	MsgUserExists         = "User already exists!"
	MsgInvalidCredentials = "Invalid credentials!"
)

// Page paths.
const (
	PathRoot      = "/"
	PathRegister  = "/register"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathLogout    = "/logout"
)
