package repository

import (
	"context"
	"time"

	"uniwiz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines the interface for chat data operations
type ChatRepository interface {
	WithTx(tx *gorm.DB) ChatRepository
	FindConversation(ctx context.Context, userOneID, userTwoID, jobID uint) (*models.Conversation, error)
	InsertConversationIfAbsent(ctx context.Context, conv *models.Conversation) error
	FindConversationShared(ctx context.Context, userOneID, userTwoID, jobID uint) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	TouchConversation(ctx context.Context, id uint, at time.Time) error
	CreateMessage(ctx context.Context, msg *models.Message) error
	MarkConversationRead(ctx context.Context, convID, receiverID uint, at time.Time) (int64, error)
	ListMessages(ctx context.Context, convID uint) ([]models.Message, error)
	ListUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	UnreadCounts(ctx context.Context, userID uint, convIDs []uint) (map[uint]int64, error)
	LastMessages(ctx context.Context, convIDs []uint) (map[uint]models.Message, error)
	TotalUnread(ctx context.Context, userID uint) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) WithTx(tx *gorm.DB) ChatRepository {
	return &chatRepository{db: tx}
}

// FindConversation expects the pair in canonical order.
func (r *chatRepository) FindConversation(ctx context.Context, userOneID, userTwoID, jobID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_one_id = ? AND user_two_id = ? AND job_id = ?", userOneID, userTwoID, jobID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindConversationShared is FindConversation as a locking read. Inside a
// REPEATABLE READ transaction it still sees rows committed after the
// transaction's snapshot was taken. SQLite ignores the lock clause.
func (r *chatRepository) FindConversationShared(ctx context.Context, userOneID, userTwoID, jobID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("user_one_id = ? AND user_two_id = ? AND job_id = ?", userOneID, userTwoID, jobID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// InsertConversationIfAbsent inserts conv unless the (pair, job) row already
// exists. conv.ID is not reliable afterwards; re-read with FindConversationShared.
func (r *chatRepository) InsertConversationIfAbsent(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(conv).Error
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) TouchConversation(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// MarkConversationRead flips every unread message addressed to receiverID and
// returns how many changed.
func (r *chatRepository) MarkConversationRead(ctx context.Context, convID, receiverID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", convID, receiverID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *chatRepository) ListMessages(ctx context.Context, convID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) ListUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	return convs, err
}

func (r *chatRepository) UnreadCounts(ctx context.Context, userID uint, convIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(convIDs))
	if len(convIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ConversationID uint
		Unread         int64
	}
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("receiver_id = ? AND is_read = ? AND conversation_id IN ?", userID, false, convIDs).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ConversationID] = row.Unread
	}
	return out, nil
}

func (r *chatRepository) LastMessages(ctx context.Context, convIDs []uint) (map[uint]models.Message, error) {
	out := make(map[uint]models.Message, len(convIDs))
	if len(convIDs) == 0 {
		return out, nil
	}

	db := r.db.WithContext(ctx)
	latest := db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("conversation_id IN ?", convIDs).
		Group("conversation_id")

	var messages []models.Message
	if err := db.Where("id IN (?)", latest).Find(&messages).Error; err != nil {
		return nil, err
	}
	for _, m := range messages {
		out[m.ConversationID] = m
	}
	return out, nil
}

func (r *chatRepository) TotalUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *chatRepository) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&count).Error
	return count, err
}
