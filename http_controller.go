package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the account endpoints. The gate middleware is
// expected to run in front of the router so Me can read the actor from
// locals; every other route here is reachable anonymously.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Join, controller.JoinPost).
		SetName("auth.join")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.
		Delete(controller.Routes.Logout, controller.LogoutDelete).
		SetName("auth.logout")

	app.
		Get(controller.Routes.Me, controller.MeGet).
		SetName("auth.me")
}

type AuthControllerRoutes struct {
	Join   string
	Login  string
	Logout string
	Me     string
}

type AuthController struct {
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       *RouteAuthenticator
	ActivitySink ActivitySink
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Join:   "/accounts/join",
			Login:  "/accounts/login",
			Logout: "/accounts/logout",
			Me:     "/accounts/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.Auther.ErrorHandler
	}

	return c
}

// WithAuthControllerRepo sets the repository manager.
func WithAuthControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

// WithAuthControllerAuther sets the HTTP authenticator.
func WithAuthControllerAuther(auther *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithAuthControllerActivitySink sets the sink registrations are recorded to.
func WithAuthControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ActivitySink = sink
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetUsername returns the login name
func (r LoginRequest) GetUsername() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// JoinRequest is the registration payload.
type JoinRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Nickname string `form:"nickname" json:"nickname"`
}

// Validate will run validation rules
func (r JoinRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Nickname, validation.Length(1, 100)),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"code":   "VALIDATION",
			"fields": FormatValidationErrorToMap(err),
		})
	}

	cred, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"apiKey":      cred.IdentityKey,
		"accessToken": cred.AccessToken,
	})
}

func (a *AuthController) JoinPost(ctx router.Context) error {
	payload := new(JoinRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("join parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"code":   "VALIDATION",
			"fields": FormatValidationErrorToMap(err),
		})
	}

	registerAccount := NewRegisterAccountHandler(a.Repo).
		WithActivitySink(a.ActivitySink).
		WithLogger(a.Logger)
	account, err := registerAccount.Execute(ctx.Context(), RegisterAccountMessage{
		Username: payload.Username,
		Password: payload.Password,
		Nickname: payload.Nickname,
	})
	if err != nil {
		a.Logger.Error("join register account", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, NewActor(account))
}

func (a *AuthController) LogoutDelete(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "logged out",
	})
}

func (a *AuthController) MeGet(ctx router.Context) error {
	actor, ok := ActorFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	return ctx.JSON(router.StatusOK, actor)
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
