package types

import "time"

const ContextUserKey = "user_id"

const (
	HeaderXAuthorization = "X-Authorization"
	HeaderAuthorization  = "Authorization"
)

var (
	AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	AllowedHeaders = []string{"Content-Type", HeaderAuthorization, HeaderXAuthorization}
)

const PreflightMaxAge = 24 * time.Hour
