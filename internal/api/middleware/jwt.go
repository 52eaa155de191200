package middleware

import (
	"context"
	"net/http"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "user"

// JWT validates HS256 bearer tokens. The token may also be passed as the
// "token" query parameter, which browsers need for websocket upgrades.
func JWT(signingKey string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(signingKey),
		ContextKey:  tokenContextKey,
		TokenLookup: "header:Authorization:Bearer ,query:token",
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		},
	})
}

func ExtractUserIDFromJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwtv5.Token)
			if !ok || token == nil {
				return next(c)
			}

			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return next(c)
			}

			idStr, ok := claims["id"].(string)
			if !ok {
				return next(c)
			}

			userID, err := uuid.Parse(idStr)
			if err != nil {
				return next(c)
			}

			ctx := ContextWithUserID(c.Request().Context(), userID)
			if name, ok := claims["username"].(string); ok {
				ctx = context.WithValue(ctx, usernameKey, name)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
