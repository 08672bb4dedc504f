package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FirebaseAuthMiddleware creates an Echo middleware that verifies Firebase ID
// tokens and resolves the caller's application identity.
func FirebaseAuthMiddleware(authClient *auth.Client, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			idToken := tokenParts[1]

			// Verify the ID token
			token, err := authClient.VerifyIDToken(context.Background(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			user, err := userRepo.GetUserByFirebaseUID(token.UID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
			}

			// Store the resolved identity in the context for the handlers
			c.Set("firebaseUID", token.UID)
			c.Set("userID", user.ID)

			return next(c)
		}
	}
}
