// Package authgate pipes every request through the authentication gate
// before it reaches a handler. Handlers declare whether anonymous access is
// permitted; the gate itself never auto-rejects a request that simply
// carries no credential.
package authgate

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-router"
	auth "github.com/quillstack/go-auth"
)

// Config configures the gate middleware.
type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(router.Context) bool

	// SuccessHandler runs after the gate resolved (or passed through) the
	// request. Defaults to ctx.Next().
	SuccessHandler router.HandlerFunc

	// ErrorHandler receives gate rejections. Rejections are authentication
	// errors; they are never downgraded to anonymous.
	ErrorHandler router.ErrorHandler

	// Gate is required: the authenticator resolving credentials.
	Gate auth.Authenticator

	// ContextKey is the router locals key holding the resolved actor.
	// Defaults to "actor".
	ContextKey string

	// AuthScheme is the Authorization header scheme. Defaults to "Bearer".
	AuthScheme string

	// RequireAuth rejects anonymous requests with ErrUnauthenticated.
	// Endpoints that are optionally authenticated leave this false and
	// check the actor themselves.
	RequireAuth bool

	// CookieTTL bounds the refreshed accessToken cookie. Zero writes a
	// session cookie; the token's own expiry still governs its usefulness.
	CookieTTL time.Duration

	// TokenWriter emits a reissued access token to the client. The default
	// overwrites the accessToken cookie.
	TokenWriter func(ctx router.Context, token string)

	// ContextEnricher propagates the actor into the standard context so
	// guards and services reach it without the router. Defaults to
	// auth.WithActor.
	ContextEnricher func(c context.Context, actor *auth.Actor) context.Context
}

// FromConfig builds a middleware Config from the shared auth configuration,
// honoring its context key and auth scheme. Zero getter values fall back to
// the middleware defaults.
func FromConfig(gate auth.Authenticator, cfg auth.Config) Config {
	return Config{
		Gate:       gate,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
	}
}

// New builds the middleware. Flow per request: extract the combined
// credential (Authorization header first, cookies as fallback), hand it to
// the gate, then either pass through anonymously, reject, or store the
// actor and any refreshed token.
func New(config ...Config) router.MiddlewareFunc {
	cfg := configDefault(config...)
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			cred := ExtractCredential(ctx, cfg.AuthScheme)

			result, err := cfg.Gate.Authenticate(ctx.Context(), cred)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if !result.Authenticated() {
				if cfg.RequireAuth {
					return cfg.ErrorHandler(ctx, auth.ErrUnauthenticated)
				}
				return cfg.SuccessHandler(ctx)
			}

			if result.Refreshed() {
				cfg.TokenWriter(ctx, result.RefreshedToken)
			}

			ctx.Locals(cfg.ContextKey, result.Actor)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), result.Actor))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// ExtractCredential pulls the combined credential from the request. The
// Authorization header wins; browser clients fall back to the split
// apiKey/accessToken cookies.
func ExtractCredential(ctx router.Context, authScheme string) auth.Credential {
	if raw := fromHeader(ctx, authScheme); raw != "" {
		return auth.ParseCredential(raw)
	}

	return auth.Credential{
		IdentityKey: ctx.Cookies(auth.CookieIdentityKey),
		AccessToken: ctx.Cookies(auth.CookieAccessToken),
	}
}

func fromHeader(ctx router.Context, authScheme string) string {
	header := ctx.Header(router.HeaderAuthorization)
	if header == "" {
		return ""
	}

	scheme := strings.TrimSpace(authScheme)
	l := len(scheme)
	if l == 0 {
		return strings.TrimSpace(header)
	}

	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:])
	}

	return ""
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Gate == nil {
		panic("AUTH: gate middleware configuration: Gate is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			status := router.StatusUnauthorized
			if auth.IsForbiddenError(err) {
				status = router.StatusForbidden
			}
			return c.JSON(status, map[string]string{
				"message": "invalid authentication credential",
			})
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "actor"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.TokenWriter == nil {
		cfg.TokenWriter = func(ctx router.Context, token string) {
			var expires time.Time
			if cfg.CookieTTL > 0 {
				expires = time.Now().Add(cfg.CookieTTL)
			}
			ctx.Cookie(&router.Cookie{
				Name:     auth.CookieAccessToken,
				Value:    token,
				Expires:  expires,
				HTTPOnly: true,
				Secure:   true,
				SameSite: "Lax",
			})
		}
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = func(c context.Context, actor *auth.Actor) context.Context {
			return auth.WithActor(c, actor)
		}
	}

	return cfg
}
