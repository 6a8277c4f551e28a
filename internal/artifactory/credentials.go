package artifactory

import "fmt"

// Credentials authenticate against the store. The zero value sends no
// Authorization header.
type Credentials struct {
	User      string
	Token     string
	TokenLong string
}

// NewCredentials returns an immutable credentials value.
func NewCredentials(user, token, tokenLong string) Credentials {
	return Credentials{User: user, Token: token, TokenLong: tokenLong}
}

// Empty reports whether no user or token is set.
func (c Credentials) Empty() bool {
	return c.User == "" || c.Token == ""
}

// RedactedToken shows at most a short slice from the middle of the token.
func (c Credentials) RedactedToken() string {
	return redact(c.Token)
}

// String never prints a full secret.
func (c Credentials) String() string {
	return fmt.Sprintf("user=%s token=%s", c.User, c.RedactedToken())
}

func redact(secret string) string {
	switch {
	case secret == "":
		return "<none>"
	case len(secret) < 16:
		return "***"
	default:
		return "***" + secret[3:12] + "***"
	}
}
