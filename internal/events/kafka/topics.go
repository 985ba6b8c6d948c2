package kafka

// Event types published by the auth service.
const (
	EventUserRegistered = "auth.user.registered"
	EventUserLoggedIn   = "auth.user.logged_in"
	EventUserSignedOut  = "auth.user.signed_out"
)
