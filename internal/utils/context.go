package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/types"
)

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return 0, fmt.Errorf("User not authenticated")
	}

	userID, ok := value.(uint)

	if !ok || userID == 0 {
		return 0, fmt.Errorf("Invalid user id in context")
	}

	return userID, nil
}
