package auth

import "strings"

// Cookie names for browser clients carrying the split credential.
const (
	CookieIdentityKey = "apiKey"
	CookieAccessToken = "accessToken"
)

// Credential is the combined bearer artifact: the persistent identity key
// paired with an optional short-lived access token. Its wire form is
// "<identityKey> <accessToken>", the token segment being optional.
type Credential struct {
	IdentityKey string
	AccessToken string
}

// ParseCredential splits a raw bearer value into its two segments. An empty
// string yields a zero credential, which the gate treats as anonymous.
func ParseCredential(raw string) Credential {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Credential{}
	}

	key, token, found := strings.Cut(raw, " ")
	if !found {
		return Credential{IdentityKey: key}
	}

	return Credential{
		IdentityKey: strings.TrimSpace(key),
		AccessToken: strings.TrimSpace(token),
	}
}

// String renders the wire form of the credential.
func (c Credential) String() string {
	if c.AccessToken == "" {
		return c.IdentityKey
	}
	return c.IdentityKey + " " + c.AccessToken
}

// IsZero reports whether no identity key is present.
func (c Credential) IsZero() bool {
	return c.IdentityKey == ""
}

// HasToken reports whether the access token segment is present.
func (c Credential) HasToken() bool {
	return c.AccessToken != ""
}
