package handler

import (
	"context"

	"github.com/smartaircity/smartaircity/internal/api/middleware"
)

// GetAdminUsername retrieves the authenticated admin username from the
// context. This is a convenience wrapper around middleware.GetAdminUsername.
func GetAdminUsername(ctx context.Context) string {
	return middleware.GetAdminUsername(ctx)
}
