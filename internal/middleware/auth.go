package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/yshebel/customerhub/internal/auth"
	"github.com/yshebel/customerhub/internal/model"
)

const bearerScheme = "Bearer"

// Authorize verifies bearer session token, and when roles are provided
// additionally requires the token to carry one of them
func Authorize(validator *auth.TokenValidator, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHdr := c.Request().Header.Get(echo.HeaderAuthorization)
			hdrSplit := strings.Split(authHdr, " ")
			if len(hdrSplit) != 2 || hdrSplit[0] != bearerScheme {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
			}

			claims, err := validator.Verify(hdrSplit[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}

func hasRole(role model.Role, allowed []model.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
