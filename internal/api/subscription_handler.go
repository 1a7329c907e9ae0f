package api

import (
	"net/http"

	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	channelID, ok := objectIDParam(c, "channelId")
	if !ok {
		return
	}

	subscribed, err := h.subscriptionService.Toggle(c.Request.Context(), userID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, message)
}

func (h *SubscriptionHandler) GetChannelSubscribers(c *gin.Context) {
	channelID, ok := objectIDParam(c, "channelId")
	if !ok {
		return
	}
	subscribers, err := h.subscriptionService.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subscribers, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) GetSubscribedChannels(c *gin.Context) {
	subscriberID, ok := objectIDParam(c, "subscriberId")
	if !ok {
		return
	}
	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
