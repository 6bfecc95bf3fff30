package helper_util

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetListingParams reads the page number and optional free-text search
// query from the request. Page defaults to 1.
func GetListingParams(c *gin.Context) (page int, searchQuery string, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, "", err
	}
	if page < 1 {
		page = 1
	}
	searchQuery = strings.TrimSpace(c.Query("searchQuery"))
	return page, searchQuery, nil
}

// GetPageParam reads just the page number, defaulting to 1.
func GetPageParam(c *gin.Context) (int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, err
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}
