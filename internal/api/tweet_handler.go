package api

import (
	"net/http"

	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetService service.TweetService
}

func NewTweetHandler(tweetService service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) CreateTweet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) GetUserTweets(c *gin.Context) {
	viewer, ok := mustUserID(c)
	if !ok {
		return
	}
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweetService.ListByUser(c.Request.Context(), userID, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *TweetHandler) UpdateTweet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	tweetID, ok := objectIDParam(c, "tweetId")
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), tweetID, userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	tweetID, ok := objectIDParam(c, "tweetId")
	if !ok {
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), tweetID, userID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"tweetId": tweetID}, "Tweet deleted successfully")
}
