package handler

import (
	"net/http"

	"github.com/mubs-locator/internal/application/notification"
	"github.com/mubs-locator/internal/domain"
)

// NotificationHandler handles push notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Global(w http.ResponseWriter, r *http.Request) {
	var req domain.BroadcastRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.svc.Broadcast(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Notification sent!", ID: id})
}

func (h *NotificationHandler) Simple(w http.ResponseWriter, r *http.Request) {
	var req domain.SimpleNotificationRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	res, err := h.svc.SendSimple(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SimpleNotificationEnvelope{
		Success:  true,
		ID:       res.ID,
		Title:    res.Title,
		Body:     res.Body,
		Category: res.Category,
	})
}

func (h *NotificationHandler) FeedbackReply(w http.ResponseWriter, r *http.Request) {
	var req domain.FeedbackReplyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.svc.ReplyToFeedback(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Notification sent!", ID: id})
}
