package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/middleware"
	"github.com/semiologia/semiologia-api/internal/service"
)

// Context keys filled by the UUID param middleware.
const (
	ContextFriendID  = "friendID"
	ContextRequestID = "requestID"
)

// FriendHandler serves friend lists, user search and friend requests.
type FriendHandler struct {
	friendService *service.FriendService
}

// NewFriendHandler creates a new friend handler.
func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// List handles GET /api/friends.
func (h *FriendHandler) List(c *gin.Context) {
	friends, err := h.friendService.ListFriends(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": dto.NewFriendListResponse(friends)})
}

// Search handles GET /api/friends/search?q=&limit=.
func (h *FriendHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	users, err := h.friendService.SearchUsers(c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i], false))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// SendRequest handles POST /api/friends/requests.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req dto.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.friendService.SendRequest(req.UserID, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFriendRequestResponse(request))
}

// ListRequests handles GET /api/friends/requests.
func (h *FriendHandler) ListRequests(c *gin.Context) {
	requests, err := h.friendService.ListPendingRequests(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": dto.NewFriendRequestListResponse(requests)})
}

// AcceptRequest handles POST /api/friends/requests/:request_id/accept.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	err := h.friendService.AcceptRequest(c.GetString(ContextRequestID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}

// RejectRequest handles POST /api/friends/requests/:request_id/reject.
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	err := h.friendService.RejectRequest(c.GetString(ContextRequestID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request rejected"})
}

// Delete handles DELETE /api/friends/:friend_id.
func (h *FriendHandler) Delete(c *gin.Context) {
	err := h.friendService.DeleteFriend(c.GetString(middleware.ContextUserID), c.GetString(ContextFriendID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend removed"})
}
