package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator binds the auth core to the HTTP surface: it moves the
// combined credential in and out of cookies and maps rich errors to
// status codes.
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	tokenTTL     time.Duration
	activitySink ActivitySink
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	tokenTTL := time.Hour
	if cfg.GetTokenTTL() > 0 {
		tokenTTL = time.Duration(cfg.GetTokenTTL()) * time.Second
	}

	a := &RouteAuthenticator{
		cfg:          cfg,
		auth:         auther,
		Logger:       defLogger{},
		tokenTTL:     tokenTTL,
		activitySink: noopActivitySink{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// WithActivitySink configures an ActivitySink for emitting logout events.
func (a *RouteAuthenticator) WithActivitySink(sink ActivitySink) *RouteAuthenticator {
	a.activitySink = normalizeActivitySink(sink)
	return a
}

func (a RouteAuthenticator) GetTokenTTL() time.Duration {
	return a.tokenTTL
}

// Login verifies the payload and, on success, sets both credential cookies:
// apiKey as a session cookie (re-set only at login), accessToken bounded by
// the token TTL. The credential is returned so JSON clients can store it.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (Credential, error) {
	cred, err := a.auth.Login(ctx.Context(), payload.GetUsername(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return Credential{}, err
	}

	a.setCredentialCookies(ctx, cred)
	return cred, nil
}

// Logout clears both credential cookies. It is idempotent and requires no
// prior authentication: identity keys are not tracked as server-side
// sessions, so there is nothing to revoke here. When the gate resolved an
// actor for the request, the logout is recorded against that account.
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, CookieIdentityKey)
	a.cookieDel(ctx, CookieAccessToken)

	var accountID int64
	if actor, ok := ActorFromRouterContext(ctx); ok {
		accountID = actor.ID
	}

	sink := normalizeActivitySink(a.activitySink)
	err := sink.Record(ctx.Context(), ActivityEvent{
		EventType:  ActivityEventLogout,
		AccountID:  accountID,
		Metadata:   map[string]any{},
		OccurredAt: time.Now(),
	})
	if err != nil {
		a.Logger.Warn("activity sink record error: %v", err)
	}
}

// SetRefreshedToken overwrites the accessToken cookie after the gate minted
// a replacement. The apiKey cookie is left untouched.
func (a *RouteAuthenticator) SetRefreshedToken(ctx router.Context, token string) {
	a.setCookie(ctx, CookieAccessToken, token, time.Now().Add(a.tokenTTL))
}

func (a *RouteAuthenticator) setCredentialCookies(ctx router.Context, cred Credential) {
	// session-lifetime cookie: zero Expires
	a.setCookie(ctx, CookieIdentityKey, cred.IdentityKey, time.Time{})
	a.setCookie(ctx, CookieAccessToken, cred.AccessToken, time.Now().Add(a.tokenTTL))
}

func (a *RouteAuthenticator) setCookie(c router.Context, name, val string, expires time.Time) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// MakeGateErrorHandler builds the error handler the gate middleware uses.
// Rejections always surface as authentication errors; they are never
// downgraded to anonymous.
func (a *RouteAuthenticator) MakeGateErrorHandler() func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "invalid authentication credential").
				WithCode(errors.CodeUnauthorized)
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"HTTP error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	return c.JSON(status, ErrorResponse{
		Code:    richErr.TextCode,
		Message: richErr.Message,
	})
}

// ErrorResponse is the stable machine-readable error body.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryConflict:
		return router.StatusConflict
	case errors.CategoryNotFound:
		return router.StatusNotFound
	default:
		return router.StatusInternalServerError
	}
}
