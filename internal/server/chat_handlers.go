package server

import (
	"uniwiz/internal/models"
	"uniwiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Description Resolves the conversation for the (sender, receiver, job) triple and appends a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{receiver_id=int,job_id=int,message_text=string} true "Message"
// @Success 201 {object} service.SendMessageResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID  uint   `json:"receiver_id"`
		JobID       uint   `json:"job_id"`
		MessageText string `json:"message_text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.chatService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:   currentActor(c).ID,
		ReceiverID: req.ReceiverID,
		JobID:      req.JobID,
		Text:       req.MessageText,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// StartConversation handles POST /api/conversations
// @Summary Find or create a conversation
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{other_user_id=int,job_id=int} true "Counterpart"
// @Success 200 {object} models.Conversation
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations [post]
func (s *Server) StartConversation(c *fiber.Ctx) error {
	var req struct {
		OtherUserID uint `json:"other_user_id"`
		JobID       uint `json:"job_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	conv, err := s.chatService.StartConversation(c.UserContext(), currentActor(c).ID, req.OtherUserID, req.JobID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(conv)
}

// GetConversations handles GET /api/conversations
// @Summary List my conversations
// @Description Newest activity first, with the other participant, last message and unread count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ConversationListItem
// @Router /conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	items, err := s.chatService.ListConversations(c.UserContext(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(items)
}

// GetMessages handles GET /api/conversations/:id/messages
// @Summary Read a conversation
// @Description Marks messages addressed to the caller as read and returns the whole thread
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {array} models.Message
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /conversations/{id}/messages [get]
func (s *Server) GetMessages(c *fiber.Ctx) error {
	convID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.chatService.GetMessagesForUser(c.UserContext(), convID, currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(messages)
}

// GetUnreadCount handles GET /api/messages/unread-count
// @Summary Unread message total
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{unread_count=int}
// @Router /messages/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	total, err := s.chatService.UnreadTotal(c.UserContext(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": total})
}

// AdminGetConversationMessages handles GET /api/admin/conversations/:id/messages
// @Summary Moderator view of a conversation
// @Description Read-only; read state is not changed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} service.AdminConversationView
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/conversations/{id}/messages [get]
func (s *Server) AdminGetConversationMessages(c *fiber.Ctx) error {
	convID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.chatService.GetMessagesForAdmin(c.UserContext(), convID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}
