package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/services"
	"github.com/monocle-dev/tasksync/internal/types"
	"github.com/monocle-dev/tasksync/internal/utils"
)

type DataHandler struct {
	sync *services.SyncService
}

func NewDataHandler(sync *services.SyncService) *DataHandler {
	return &DataHandler{sync: sync}
}

// FetchAll answers GET /data with the caller's whole graph.
func (h *DataHandler) FetchAll(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.sync.FetchAll(ctx.Request.Context(), userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

// Sync answers POST /data by merging the submitted snapshot.
func (h *DataHandler) Sync(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var snapshot types.Snapshot

	if err := bindOptionalJSON(ctx, &snapshot); err != nil {
		log.Printf("[SYNC] Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.sync.Sync(ctx.Request.Context(), userID, snapshot); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.MessageResponse{Message: "Data synced successfully"})
}
