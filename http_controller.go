package auth

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// OperationHandler handles an operation admitted by the guard chain.
// The resolved identity is passed explicitly.
type OperationHandler func(c router.Context, auth AuthResult) error

// HTTPControllerRoutes holds the route paths
type HTTPControllerRoutes struct {
	Signup         string
	VerifyEmail    string
	Login          string
	UpdatePassword string
	Logout         string
	Users          string
}

// HTTPController exposes the session operations on a go-router router
type HTTPController struct {
	Routes       *HTTPControllerRoutes
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error

	service *SessionService
	guard   *GuardChain
	cookies *CookieTransport
}

// NewHTTPController creates a controller with the default routes
func NewHTTPController(service *SessionService, guard *GuardChain, cookies *CookieTransport) *HTTPController {
	h := &HTTPController{
		Routes: &HTTPControllerRoutes{
			Signup:         "/auth/signup",
			VerifyEmail:    "/auth/verify-email",
			Login:          "/auth/login",
			UpdatePassword: "/auth/password",
			Logout:         "/auth/logout",
			Users:          "/users",
		},
		Logger:  defLogger{},
		service: service,
		guard:   guard,
		cookies: cookies,
	}
	h.ErrorHandler = h.defaultErrHandler
	return h
}

// WithLogger sets the logger
func (h *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		h.Logger = logger
	}
	return h
}

// RegisterRoutes mounts every controller operation on app
func RegisterRoutes[T any](app router.Router[T], h *HTTPController) {
	app.Post(h.Routes.Signup, h.Operation(PublicOperation(), h.Signup)).
		SetName("auth.signup.post")
	app.Post(h.Routes.VerifyEmail, h.Operation(PublicOperation(), h.VerifyEmail)).
		SetName("auth.verify-email.post")
	app.Post(h.Routes.Login, h.Operation(PublicOperation(), h.Login)).
		SetName("auth.login.post")
	app.Post(h.Routes.UpdatePassword, h.Operation(VerifiedOperation(), h.UpdatePassword)).
		SetName("auth.password.post")
	app.Post(h.Routes.Logout, h.Operation(Capability{}, h.Logout)).
		SetName("auth.logout.post")
	app.Get(h.Routes.Users, h.Operation(RoleOperation(RoleAdmin), h.Users)).
		SetName("users.get")
}

// Operation guards handler with the capability
func (h *HTTPController) Operation(capability Capability, handler OperationHandler) router.HandlerFunc {
	return func(c router.Context) error {
		result, err := h.guard.Admit(c.Context(), capability, h.cookies.Token(c))
		if err != nil {
			return h.ErrorHandler(c, err)
		}
		return handler(c, result)
	}
}

func (h *HTTPController) Signup(c router.Context, _ AuthResult) error {
	payload := new(SignupPayload)
	if ok, err := h.bind(c, payload); !ok {
		return err
	}

	res, err := h.service.Signup(c.Context(), payload.input())
	if err != nil {
		return h.ErrorHandler(c, err)
	}

	return c.JSON(http.StatusCreated, res)
}

func (h *HTTPController) VerifyEmail(c router.Context, _ AuthResult) error {
	payload := new(VerifyEmailPayload)
	if ok, err := h.bind(c, payload); !ok {
		return err
	}

	res, err := h.service.VerifyEmail(c.Context(), payload.Token)
	if err != nil {
		return h.ErrorHandler(c, err)
	}

	h.cookies.SetToken(c, res.Token)
	return c.JSON(http.StatusOK, res)
}

func (h *HTTPController) Login(c router.Context, _ AuthResult) error {
	payload := new(LoginPayload)
	if ok, err := h.bind(c, payload); !ok {
		return err
	}

	res, err := h.service.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return h.ErrorHandler(c, err)
	}

	h.cookies.SetToken(c, res.Token)
	return c.JSON(http.StatusOK, res)
}

func (h *HTTPController) UpdatePassword(c router.Context, auth AuthResult) error {
	payload := new(UpdatePasswordPayload)
	if ok, err := h.bind(c, payload); !ok {
		return err
	}

	res, err := h.service.UpdatePassword(c.Context(), auth.User.ID, payload.input())
	if err != nil {
		return h.ErrorHandler(c, err)
	}

	h.cookies.SetToken(c, res.Token)
	return c.JSON(http.StatusOK, res)
}

// Logout always succeeds
func (h *HTTPController) Logout(c router.Context, _ AuthResult) error {
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, true)
}

func (h *HTTPController) Users(c router.Context, _ AuthResult) error {
	records, err := h.service.ListUsers(c.Context())
	if err != nil {
		return h.ErrorHandler(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

type validatable interface {
	Validate() error
}

// bind parses and validates the body. When it returns false the error
// response has already been written.
func (h *HTTPController) bind(c router.Context, payload validatable) (bool, error) {
	if err := c.Bind(payload); err != nil {
		h.Logger.Error("parse payload", "path", c.Path(), "error", err)
		return false, h.renderValidation(c, map[string]string{"body": "Failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		fields := map[string]string{}
		if verrs, ok := err.(validation.Errors); ok {
			for field, ferr := range verrs {
				fields[field] = ferr.Error()
			}
		} else {
			fields["payload"] = err.Error()
		}
		return false, h.renderValidation(c, fields)
	}

	return true, nil
}

func (h *HTTPController) renderValidation(c router.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"message":    ErrInvalidPayload.Message,
			"text_code":  ErrInvalidPayload.TextCode,
			"category":   fmt.Sprint(ErrInvalidPayload.Category),
			"validation": fields,
		},
	})
}

func (h *HTTPController) defaultErrHandler(c router.Context, err error) error {
	richErr := AsRichError(err)
	status := StatusForError(richErr)

	message := richErr.Message
	textCode := richErr.TextCode
	if status == http.StatusInternalServerError {
		h.Logger.Error("operation failed", "path", c.Path(), "error", err)
		message = "An unexpected server error occurred"
		textCode = TextCodeUnexpectedServerError
	}

	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"message":   message,
			"text_code": textCode,
			"category":  fmt.Sprint(richErr.Category),
		},
	})
}

// StatusForError maps an error category to an HTTP status
func StatusForError(richErr *goerrors.Error) int {
	if richErr == nil {
		return http.StatusOK
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
