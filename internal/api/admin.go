package api

import (
	"context"
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"backoffice/internal/domain" // Importing domain models
	"backoffice/internal/middleware"
	"backoffice/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// usersCachePrefix namespaces cached user pages so signups can invalidate them
const usersCachePrefix = "admin:users:"

const usersCacheTTL = 60 * time.Second

// UserLister pages through users
type UserLister interface {
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}

// usersPage is the paginated user listing, also the cached value
type usersPage struct {
	Users      []UserResponse `json:"users"`       // List of users
	Page       int            `json:"page"`        // Current page
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total number of users
	TotalPages int            `json:"total_pages"` // Total pages
	Cached     bool           `json:"cached"`      // Whether the response came from cache
}

// ListUsersHandler returns one page of users. Pages are cached in Redis when rdb is set.
func ListUsersHandler(users UserLister, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		// Create a cache key based on the effective pagination
		cacheKey := usersCachePrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)

		if rdb != nil {
			var cached usersPage
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err != nil {
				middleware.Logger(c).WithError(err).Warn("User cache read failed")
			}
			if err == nil && found {
				cached.Cached = true // Indicate response is from cache
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		offset := (page - 1) * pageSize // Calculate offset for pagination
		list, total, err := users.List(ctx, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := usersPage{
			Users:      make([]UserResponse, len(list)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (int(total) + pageSize - 1) / pageSize, // Calculate total pages
		}
		// Map users to response format
		for i := range list {
			resp.Users[i] = userResponse(&list[i])
		}
		if rdb != nil {
			// Cache the response for future requests
			if err := utils.SetCache(ctx, rdb, cacheKey, resp, usersCacheTTL); err != nil {
				middleware.Logger(c).WithError(err).Warn("User cache write failed")
			}
		}
		c.JSON(http.StatusOK, resp) // Return the response
	}
}
