package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/middleware"
	"github.com/monocle-dev/tasksync/internal/services"
)

const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionVerify   = "verify"
)

// AuthRequest is the body of POST /auth. The action selects the flow.
type AuthRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Handle(ctx *gin.Context) {
	var body AuthRequest

	if err := bindOptionalJSON(ctx, &body); err != nil {
		log.Printf("[AUTH] Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	switch body.Action {
	case ActionRegister:
		resp, err := h.accounts.Register(ctx.Request.Context(), services.RegisterInput{
			Email:    body.Email,
			Password: body.Password,
			Username: body.Username,
		})

		if err != nil {
			respondError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, resp)

	case ActionLogin:
		resp, err := h.accounts.Login(ctx.Request.Context(), services.LoginInput{
			Email:    body.Email,
			Password: body.Password,
		})

		if err != nil {
			respondError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, resp)

	case ActionVerify:
		user, err := h.accounts.Verify(ctx.Request.Context(), middleware.RequestToken(ctx.Request))

		if err != nil {
			respondError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"user": user})

	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}
