package ports

// CredentialSource exposes the ambient session credential without letting
// callers inspect the session itself: the socket client reads the access
// token once at connect time, and expiry handling clears everything.
type CredentialSource interface {
	AccessToken() string
	Clear() error
}
