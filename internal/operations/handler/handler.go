// Package handler exposes the operations console over HTTP.
package handler

import (
	"net/http"
	"strconv"
)

// parsePagination reads page and per_page query parameters with the
// defaults every list endpoint shares
func parsePagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return page, perPage
}
