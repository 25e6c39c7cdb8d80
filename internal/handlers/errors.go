package handlers

import (
	"errors"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/apperrors"
)

// respondError writes the {"error": message} envelope. Unclassified errors
// are logged and answered as a 500 carrying their text.
func respondError(ctx *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeInternal, err.Error(), err)
	}

	if code == apperrors.CodeInternal {
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}

	ctx.AbortWithStatusJSON(code.HTTPStatus(), gin.H{"error": appErr.Message})
}

// MethodNotAllowed answers known paths hit with an unsupported method.
func MethodNotAllowed(ctx *gin.Context) {
	respondError(ctx, apperrors.MethodNotAllowed())
}

func NotFound(ctx *gin.Context) {
	respondError(ctx, apperrors.NotFound("Not found"))
}

// bindOptionalJSON decodes the body into dst. An empty body leaves dst at
// its zero value.
func bindOptionalJSON(ctx *gin.Context, dst any) error {
	err := ctx.ShouldBindJSON(dst)

	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
