// Package handler contains the HTTP handlers for the identity service.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"quill/config"
	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc      usecase.AccountUsecase
	session *config.SessionConfig
	logger  *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, cfg *config.Config, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:      uc,
		session: cfg.Session,
		logger:  logger,
	}
}

// SendCode handles a verification code request.
func (h *AccountHandler) SendCode(c echo.Context) error {
	var input usecase.SendCodeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid send-code input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.SendVerificationCode(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Verification code sent")
}

// VerifyCode handles a verification code confirmation.
func (h *AccountHandler) VerifyCode(c echo.Context) error {
	var input usecase.VerifyCodeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verify-code input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.VerifyCode(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email verified")
}

// Signup handles account creation. A successful signup opens a session:
// the token rides both the response body and the session cookie.
func (h *AccountHandler) Signup(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Signup(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie(output.Token))

	return response.Success(c, http.StatusCreated, echo.Map{
		"account": output.Account,
		"token":   output.Token,
	}, "Account created")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie(output.Token))

	return response.Success(c, http.StatusOK, echo.Map{
		"account": output.Account,
		"token":   output.Token,
	}, "Login successful")
}

// Logout clears the session cookie. Tokens are stateless, so the handed-out
// token stays technically valid until expiry; logout only removes it from
// the browser.
func (h *AccountHandler) Logout(c echo.Context) error {
	c.SetCookie(h.expiredCookie())

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the account behind the current session.
func (h *AccountHandler) Me(c echo.Context) error {
	claims, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	account, err := h.uc.CurrentAccount(c.Request().Context(), claims.IdentityID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "")
}

// CheckUsername reports whether a username is still available.
func (h *AccountHandler) CheckUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return response.BindingError(c, "INVALID_INPUT", "username query parameter is required")
	}

	available, err := h.uc.UsernameAvailable(c.Request().Context(), username)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, echo.Map{"available": available}, "")
}

// CheckNickname reports whether a nickname is still available.
func (h *AccountHandler) CheckNickname(c echo.Context) error {
	nickname := c.QueryParam("nickname")
	if nickname == "" {
		return response.BindingError(c, "INVALID_INPUT", "nickname query parameter is required")
	}

	available, err := h.uc.NicknameAvailable(c.Request().Context(), nickname)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, echo.Map{"available": available}, "")
}

// LookupAccount returns any account by id. The route is gated by the admin
// role middleware.
func (h *AccountHandler) LookupAccount(c echo.Context) error {
	identityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid identity id")
	}

	account, err := h.uc.LookupAccount(c.Request().Context(), identityID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "")
}

// sessionCookie builds the session cookie carrying the token.
func (h *AccountHandler) sessionCookie(token string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if h.session != nil {
		cookie.MaxAge = int(h.session.TokenTTL.Seconds())
		cookie.Domain = h.session.CookieDomain
		if h.session.CookieSameSite == "none" {
			// Cross-site cookies require the Secure attribute.
			cookie.SameSite = http.SameSiteNoneMode
			cookie.Secure = true
		}
		if h.session.CookieSecure {
			cookie.Secure = true
		}
	}

	return cookie
}

// expiredCookie builds a cookie that instructs the browser to drop the session.
func (h *AccountHandler) expiredCookie() *http.Cookie {
	cookie := h.sessionCookie("")
	cookie.MaxAge = -1

	return cookie
}

func (h *AccountHandler) cookieName() string {
	if h.session != nil && h.session.CookieName != "" {
		return h.session.CookieName
	}

	return "authToken"
}
