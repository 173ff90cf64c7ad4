package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
	"github.com/aelshh/Excalidraw-clone/internal/core/services"
	"github.com/aelshh/Excalidraw-clone/internal/platform/logger"
	"github.com/aelshh/Excalidraw-clone/pkg/middleware"
)

type RoomHandler struct {
	roomSvc *services.RoomService
}

func NewRoomHandler(roomSvc *services.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoom persists a durable room record owned by the authenticated user.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		log.ErrorContext(r.Context(), "room handler - create - missing user id")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	adminID, err := uuid.Parse(userID)
	if err != nil {
		log.ErrorContext(r.Context(), "room handler - create - bad user id", "user_id", userID)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	slug := r.PathValue("slug")
	room, err := h.roomSvc.CreateRoom(r.Context(), slug, adminID)
	switch {
	case errors.Is(err, domain.ErrInvalidRoomSlug):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid room slug"})
		return
	case errors.Is(err, domain.ErrRoomExists):
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Room already exists"})
		return
	case err != nil:
		log.ErrorContext(r.Context(), "room handler - create failed", "slug", slug, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Some unexpected Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Created room",
		"roomId":  room.ID.String(),
	})
}

// GetRoom resolves a slug to its durable room id so clients can join the
// matching relay room.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	slug := r.PathValue("slug")
	roomID, err := h.roomSvc.ResolveSlug(r.Context(), slug)
	switch {
	case errors.Is(err, domain.ErrInvalidRoomSlug):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid room slug"})
		return
	case errors.Is(err, domain.ErrRoomNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Room not found"})
		return
	case err != nil:
		log.ErrorContext(r.Context(), "room handler - get failed", "slug", slug, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Some unexpected Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"roomId": roomID})
}
