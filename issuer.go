package auth

// Issuer mints the combined credential for a successfully authenticated
// account: the account's stored identity key paired with a freshly signed
// access token. It is a pure function of account, clock, and the configured
// secret/TTL.
type Issuer struct {
	tokens TokenService
}

// NewIssuer returns a credential issuer backed by the given token service.
func NewIssuer(tokens TokenService) *Issuer {
	return &Issuer{tokens: tokens}
}

// AccessToken signs a fresh access token for the account.
func (i *Issuer) AccessToken(account *Account) (string, error) {
	return i.tokens.Generate(account)
}

// Credential pairs the account's identity key with a fresh access token.
// This pair is what the client stores; the identity key never changes here.
func (i *Issuer) Credential(account *Account) (Credential, error) {
	token, err := i.AccessToken(account)
	if err != nil {
		return Credential{}, err
	}

	return Credential{
		IdentityKey: account.APIKey,
		AccessToken: token,
	}, nil
}
