package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID for rate-limit keys.
// JWTAuth stores the raw "sub" claim, which the JWT library decodes as a
// float64; unauthenticated requests share the "anon" bucket.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
