package contextkeys

type contextKey string

// IdentityKey holds the pre-resolved RequestIdentity of the caller. It is
// written by the auth middleware; the core only ever reads it.
const IdentityKey contextKey = "requestIdentity"

// RequestIdentity is what the transport layer resolved from the bearer
// token. The core never parses tokens itself.
type RequestIdentity struct {
	UserID string
	Email  string
	Role   string
}
