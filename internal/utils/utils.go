package utils

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetSortParam reads the "sort" query parameter. An absent parameter yields
// "" and true; a value outside allowed yields false.
func GetSortParam(c *gin.Context, allowed ...string) (string, bool) {
	sort := strings.ToLower(strings.TrimSpace(c.Query("sort")))
	if sort == "" {
		return "", true
	}
	if !slices.Contains(allowed, sort) {
		return sort, false
	}
	return sort, true
}
