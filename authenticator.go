package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// AuthResult is the terminal outcome of authenticating one request.
//   - Actor == nil: anonymous — no credential was supplied at all.
//   - Actor != nil, RefreshedToken == "": the presented token verified.
//   - Actor != nil, RefreshedToken != "": the identity key authenticated the
//     request and a fresh token was minted; callers must surface it to the
//     client (cookie or response field).
//
// Rejections are returned as errors, never as an anonymous result.
type AuthResult struct {
	Actor          *Actor
	RefreshedToken string
}

// Authenticated reports whether an actor was resolved.
func (r *AuthResult) Authenticated() bool {
	return r != nil && r.Actor != nil
}

// Refreshed reports whether a fresh access token was minted for this request.
func (r *AuthResult) Refreshed() bool {
	return r != nil && r.RefreshedToken != ""
}

// Auther is the authentication core: it issues credentials at login and
// resolves them at request time. It holds no per-request state and is safe
// for concurrent use.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	issuer       *Issuer
	logger       Logger
	activitySink ActivitySink
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenTTL(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		issuer:       NewIssuer(tokenService),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenService swaps the token service, e.g. to control the clock in tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
		s.issuer = NewIssuer(ts)
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Issuer returns the credential issuer used by this Authenticator.
func (s *Auther) Issuer() *Issuer {
	return s.issuer
}

// Login verifies a username/password pair and issues the combined
// credential: the account's identity key plus a fresh access token.
func (s *Auther) Login(ctx context.Context, username, password string) (Credential, error) {
	account, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, 0, map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return Credential{}, err
	}

	cred, err := s.issuer.Credential(account)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, account.ID, map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return Credential{}, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, account.ID, map[string]any{
		"username": username,
	})

	return cred, nil
}

// Authenticate runs the request-time gate over a parsed credential.
//
// The identity key is authoritative: when the token segment is missing,
// expired, or garbled, the account still authenticates through the key and a
// fresh token is minted (transparent refresh). A verified token whose claims
// do not match the key's account is rejected. This deliberately accepts a
// present-but-invalid token instead of rejecting outright; tightening that
// would force clients with aged tokens to re-login.
func (s *Auther) Authenticate(ctx context.Context, cred Credential) (*AuthResult, error) {
	if cred.IsZero() {
		// no credential at all: anonymous, not an error
		return &AuthResult{}, nil
	}

	account, err := s.provider.FindByIdentityKey(ctx, cred.IdentityKey)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Info("Authenticate unknown identity key")
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !cred.HasToken() {
		return s.refreshResult(ctx, account, "missing")
	}

	claims, err := s.tokenService.Validate(cred.AccessToken)
	if err != nil {
		reason := "malformed"
		if IsTokenExpiredError(err) {
			reason = "expired"
		}
		return s.refreshResult(ctx, account, reason)
	}

	if claims.AccountID() != account.ID {
		s.logger.Warn("Authenticate claims mismatch",
			"claims_id", claims.AccountID(),
			"account_id", account.ID,
		)
		return nil, ErrInvalidCredential
	}

	return &AuthResult{Actor: NewActor(account)}, nil
}

// refreshResult authenticates via the identity key alone and mints a
// replacement token as a response side effect.
func (s *Auther) refreshResult(ctx context.Context, account *Account, reason string) (*AuthResult, error) {
	token, err := s.issuer.AccessToken(account)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Authenticate reissued access token", "reason", reason, "account_id", account.ID)
	s.emitAuthEvent(ctx, ActivityEventTokenRefreshed, account.ID, map[string]any{
		"reason": reason,
	})

	return &AuthResult{
		Actor:          NewActor(account),
		RefreshedToken: token,
	}, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, accountID int64, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		AccountID: accountID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
