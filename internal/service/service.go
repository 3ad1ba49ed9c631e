// Package service holds the use cases behind the HTTP handlers. Services take
// the caller's role explicitly and enforce capabilities themselves.
package service

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return skip, limit
}
