package dto

type contextKey string

const (
	UserContextKey contextKey = "user"
)
