package auth

// Actor is the account resolved for the current request. Its lifetime is a
// single request; it is never cached or shared across requests.
type Actor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Admin    bool   `json:"is_admin,omitempty"`
}

// NewActor builds an Actor from an account record.
func NewActor(account *Account) *Actor {
	if account == nil {
		return nil
	}
	return &Actor{
		ID:       account.ID,
		Username: account.Username,
		Nickname: account.Nickname,
		Admin:    account.Admin,
	}
}

// IsAdmin reports whether the actor carries the administrator role flag.
// A nil actor is anonymous and never an admin.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Admin
}
