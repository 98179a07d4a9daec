package service

import (
	"context"
	"errors"
	"time"

	"uniwiz/internal/models"
	"uniwiz/internal/notifications"
	"uniwiz/internal/observability"
	"uniwiz/internal/repository"
	"uniwiz/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ChatService provides conversation and message business logic.
type ChatService struct {
	db       *gorm.DB
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	jobRepo  repository.JobRepository
	events   EventPublisher
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	JobID      uint
	Text       string
}

// SendMessageResult is returned by SendMessage.
type SendMessageResult struct {
	ConversationID uint            `json:"conversation_id"`
	Message        *models.Message `json:"message"`
}

// AdminConversationView is the moderator's read-only view of a conversation.
type AdminConversationView struct {
	Conversation *models.Conversation `json:"conversation"`
	Participants []models.UserSummary `json:"participants"`
	Messages     []models.Message     `json:"messages"`
}

// NewChatService returns a new ChatService.
func NewChatService(
	db *gorm.DB,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	events EventPublisher,
) *ChatService {
	return &ChatService{
		db:       db,
		chatRepo: chatRepo,
		userRepo: userRepo,
		jobRepo:  jobRepo,
		events:   publisherOrNoop(events),
	}
}

// checkCounterpart validates that senderID may address otherID about jobID.
func (s *ChatService) checkCounterpart(ctx context.Context, senderID, otherID, jobID uint) error {
	if otherID == 0 {
		return models.NewValidationError("receiver_id is required")
	}
	if otherID == senderID {
		return models.NewValidationError("You cannot message yourself")
	}

	sender, err := s.userRepo.GetCachedByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewUnauthorizedError("Account no longer exists")
		}
		return err
	}
	if !sender.IsActive() {
		return models.NewForbiddenError("Your account is blocked")
	}

	receiver, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return notFound(err, "User", otherID)
	}
	if !receiver.IsActive() {
		return models.NewForbiddenError("This user cannot receive messages")
	}

	if jobID > 0 {
		if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
			return notFound(err, "Job", jobID)
		}
	}
	return nil
}

// resolveConversation finds or creates the conversation for the pair and job.
// A concurrent insert of the same row is absorbed by the unique index and the
// winner's row is returned.
func resolveConversation(ctx context.Context, chat repository.ChatRepository, a, b, jobID uint) (*models.Conversation, error) {
	one, two := models.CanonicalPair(a, b)

	conv, err := chat.FindConversation(ctx, one, two, jobID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := chat.InsertConversationIfAbsent(ctx, &models.Conversation{
		UserOneID: one,
		UserTwoID: two,
		JobID:     jobID,
	}); err != nil {
		return nil, err
	}
	// A plain read could miss the winner's row behind a MySQL snapshot.
	return chat.FindConversationShared(ctx, one, two, jobID)
}

// SendMessage appends a message to the conversation between sender and
// receiver, creating the conversation on first contact.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (result *SendMessageResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ChatService", "SendMessage",
		attribute.Int64("chat.sender_id", int64(in.SenderID)),
		attribute.Int64("chat.receiver_id", int64(in.ReceiverID)),
		attribute.Int64("chat.job_id", int64(in.JobID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if in.ReceiverID == 0 {
		return nil, models.NewValidationError("receiver_id is required")
	}
	text, verr := validation.SanitizeMessage(in.Text)
	if verr != nil {
		return nil, models.NewValidationError(verr.Error())
	}
	if err := s.checkCounterpart(ctx, in.SenderID, in.ReceiverID, in.JobID); err != nil {
		return nil, err
	}

	var msg *models.Message
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat := s.chatRepo.WithTx(tx)

		conv, err := resolveConversation(ctx, chat, in.SenderID, in.ReceiverID, in.JobID)
		if err != nil {
			return err
		}

		msg = &models.Message{
			ConversationID: conv.ID,
			SenderID:       in.SenderID,
			ReceiverID:     in.ReceiverID,
			MessageText:    text,
			CreatedAt:      time.Now().UTC(),
		}
		if err := chat.CreateMessage(ctx, msg); err != nil {
			return err
		}
		return chat.TouchConversation(ctx, conv.ID, msg.CreatedAt)
	})
	if txErr != nil {
		return nil, models.NewInternalError(txErr)
	}

	observability.MessagesSent.Inc()
	result = &SendMessageResult{ConversationID: msg.ConversationID, Message: msg}
	publishDetached(ctx, notifications.EventNewMessage, func(ctx context.Context) error {
		return s.events.PublishUserEvent(ctx, in.ReceiverID, notifications.EventNewMessage, result)
	})
	return result, nil
}

// StartConversation resolves the conversation between userID and otherID
// without sending a message.
func (s *ChatService) StartConversation(ctx context.Context, userID, otherID, jobID uint) (*models.Conversation, error) {
	if err := s.checkCounterpart(ctx, userID, otherID, jobID); err != nil {
		return nil, err
	}

	var conv *models.Conversation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		conv, err = resolveConversation(ctx, s.chatRepo.WithTx(tx), userID, otherID, jobID)
		return err
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conv, nil
}

// GetMessagesForUser returns the conversation's messages after marking those
// addressed to userID as read. Messages sent by userID are left untouched.
func (s *ChatService) GetMessagesForUser(ctx context.Context, convID, userID uint) (messages []models.Message, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ChatService", "GetMessages",
		attribute.Int64("chat.conversation_id", int64(convID)),
		attribute.Int64("chat.user_id", int64(userID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, notFound(err, "Conversation", convID)
	}
	if !conv.HasParticipant(userID) {
		return nil, models.NewForbiddenError("You are not a participant in this conversation")
	}

	var marked int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat := s.chatRepo.WithTx(tx)
		var err error
		if marked, err = chat.MarkConversationRead(ctx, convID, userID, time.Now().UTC()); err != nil {
			return err
		}
		messages, err = chat.ListMessages(ctx, convID)
		return err
	})
	if txErr != nil {
		return nil, models.NewInternalError(txErr)
	}

	if marked > 0 {
		observability.MessagesMarkedRead.Add(float64(marked))
		other := conv.OtherParticipant(userID)
		publishDetached(ctx, notifications.EventMessagesRead, func(ctx context.Context) error {
			return s.events.PublishUserEvent(ctx, other, notifications.EventMessagesRead, map[string]interface{}{
				"conversation_id": convID,
				"reader_id":       userID,
				"count":           marked,
			})
		})
	}
	return messages, nil
}

// GetMessagesForAdmin returns a conversation for moderation without changing
// read state.
func (s *ChatService) GetMessagesForAdmin(ctx context.Context, convID uint) (*AdminConversationView, error) {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, notFound(err, "Conversation", convID)
	}
	messages, err := s.chatRepo.ListMessages(ctx, convID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, []uint{conv.UserOneID, conv.UserTwoID})
	if err != nil {
		return nil, err
	}

	view := &AdminConversationView{Conversation: conv, Messages: messages}
	for _, id := range []uint{conv.UserOneID, conv.UserTwoID} {
		if u, ok := users[id]; ok {
			view.Participants = append(view.Participants, u.Summary())
		} else {
			view.Participants = append(view.Participants, models.UserSummary{ID: id})
		}
	}
	return view, nil
}

// ListConversations returns userID's inbox ordered by latest activity.
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationListItem, error) {
	convs, err := s.chatRepo.ListUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]models.ConversationListItem, 0, len(convs))
	if len(convs) == 0 {
		return items, nil
	}

	convIDs := make([]uint, 0, len(convs))
	otherIDs := make([]uint, 0, len(convs))
	var jobIDs []uint
	for _, c := range convs {
		convIDs = append(convIDs, c.ID)
		otherIDs = append(otherIDs, c.OtherParticipant(userID))
		if c.JobID > 0 {
			jobIDs = append(jobIDs, c.JobID)
		}
	}

	unread, err := s.chatRepo.UnreadCounts(ctx, userID, convIDs)
	if err != nil {
		return nil, err
	}
	last, err := s.chatRepo.LastMessages(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.GetByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	for _, c := range convs {
		otherID := c.OtherParticipant(userID)
		item := models.ConversationListItem{
			ID:          c.ID,
			JobID:       c.JobID,
			OtherUser:   models.UserSummary{ID: otherID},
			UnreadCount: unread[c.ID],
			UpdatedAt:   c.UpdatedAt,
		}
		if u, ok := users[otherID]; ok {
			item.OtherUser = u.Summary()
		}
		if j, ok := jobs[c.JobID]; ok {
			item.JobTitle = j.Title
		}
		if m, ok := last[c.ID]; ok {
			item.LastMessage = &models.LastMessage{
				MessageText: m.MessageText,
				SenderID:    m.SenderID,
				CreatedAt:   m.CreatedAt,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// UnreadTotal returns the number of unread messages addressed to userID.
func (s *ChatService) UnreadTotal(ctx context.Context, userID uint) (int64, error) {
	return s.chatRepo.TotalUnread(ctx, userID)
}
