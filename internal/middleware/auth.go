package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/auth"
	"github.com/monocle-dev/tasksync/internal/types"
)

// TokenVerifier resolves a session token to the id of its user.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// RequestToken returns the bearer token of the request. X-Authorization is
// preferred; browsers that cannot set it send Authorization instead.
func RequestToken(r *http.Request) string {
	if token := auth.BearerToken(r.Header.Get(types.HeaderXAuthorization)); token != "" {
		return token
	}
	return auth.BearerToken(r.Header.Get(types.HeaderAuthorization))
}

// AuthMiddleware rejects requests without a valid token. The user id is
// stored under types.ContextUserKey. Tokens are self-contained so no
// datastore lookup happens here.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := RequestToken(ctx.Request)

		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := tokens.Verify(token)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx.Set(types.ContextUserKey, userID)
		ctx.Next()
	}
}
