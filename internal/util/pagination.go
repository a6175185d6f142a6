package util

import (
	"math"
	"strconv"
)

const (
	UsersPerPage    = 3
	ProductsPerPage = 3
	OrdersPerPage   = 1
)

// ParsePage reads a 1-based page number. Missing, non-numeric and
// non-positive values all mean the first page.
func ParsePage(s string) int {
	if s == "" {
		return 1
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// Calculate converts a page number into an offset and limit. Pages past
// the addressable range map to math.MaxInt so they come back empty.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt, size
	}
	offset = (page - 1) * size
	return offset, size
}
