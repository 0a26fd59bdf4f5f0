package api

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ambutrack/console/internal/models"
)

// Login authenticates with email and password. The returned session has
// its platform-admin flag derived from the ID token; the caller decides
// whether to persist it.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var sess models.Session
	err := c.post(ctx, authPath, nil, models.LoginRequest{Email: email, Password: password}, &sess)
	if err != nil {
		return nil, err
	}
	sess.IsPlatformAdmin = PlatformAdmin(sess.IDToken)
	return &sess, nil
}

// Register creates a new platform user account.
func (c *Client) Register(ctx context.Context, req models.RegisterUserRequest) error {
	return c.post(ctx, registerPath, nil, req, nil)
}

// ForgotPassword starts a password reset for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, forgotPasswordPath, nil, models.ForgotPasswordRequest{Email: email}, nil)
}

// PlatformAdmin reports whether the ID token carries the platform-admin
// claim. The token is decoded without signature verification; the flag
// only gates which menus the console offers, the backend re-checks it on
// every call.
func PlatformAdmin(idToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return false
	}
	v, ok := claims["custom:isPlatformAdmin"].(string)
	return ok && v == "true"
}
