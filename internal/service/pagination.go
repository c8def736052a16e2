package service

import "github.com/stemsi/neetquiz-backend/internal/response"

// normalizePage clamps page/perPage and returns the matching limit and offset.
func normalizePage(page, perPage int) (int, int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage, perPage, (page - 1) * perPage
}

func newPagination(page, perPage, total int) *response.Pagination {
	return response.NewPagination(page, perPage, total)
}
