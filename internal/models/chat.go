package models

import "time"

// Conversation is a thread between two users, optionally about one job.
// Participants are stored in canonical order (UserOneID < UserTwoID) and
// JobID 0 means the thread is not tied to a job, so the triple is unique.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserOneID uint      `gorm:"not null;uniqueIndex:idx_conversation_pair_job,priority:1" json:"user_one_id"`
	UserTwoID uint      `gorm:"not null;uniqueIndex:idx_conversation_pair_job,priority:2;index" json:"user_two_id"`
	JobID     uint      `gorm:"not null;default:0;uniqueIndex:idx_conversation_pair_job,priority:3" json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalPair orders two user IDs so the smaller comes first.
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasParticipant(userID uint) bool {
	return userID != 0 && (c.UserOneID == userID || c.UserTwoID == userID)
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.UserOneID == userID {
		return c.UserTwoID
	}
	return c.UserOneID
}

// Message is a single entry in a conversation.
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID     uint       `gorm:"not null;index:idx_messages_receiver_read,priority:1" json:"receiver_id"`
	MessageText    string     `gorm:"type:text;not null" json:"message_text"`
	IsRead         bool       `gorm:"not null;default:false;index:idx_messages_receiver_read,priority:2" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// LastMessage is the preview shown in a conversation list.
type LastMessage struct {
	MessageText string    `json:"message_text"`
	SenderID    uint      `json:"sender_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationListItem is one row of a user's inbox.
type ConversationListItem struct {
	ID          uint         `json:"id"`
	JobID       uint         `json:"job_id"`
	JobTitle    string       `json:"job_title,omitempty"`
	OtherUser   UserSummary  `json:"other_user"`
	LastMessage *LastMessage `json:"last_message,omitempty"`
	UnreadCount int64        `json:"unread_count"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
