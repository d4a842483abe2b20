package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePagination reads ?page= and ?limit= with the defaults the list
// endpoints share. Out-of-range values fall back instead of erroring.
func ParsePagination(c *fiber.Ctx) (page, limit int) {
	page = defaultPage
	if n, err := strconv.Atoi(c.Query("page", "")); err == nil && n > 0 {
		page = n
	}
	limit = defaultLimit
	if n, err := strconv.Atoi(c.Query("limit", "")); err == nil && n > 0 {
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// PagedResponse is the common list-endpoint envelope.
type PagedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
