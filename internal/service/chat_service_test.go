package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"uniwiz/internal/models"
	"uniwiz/internal/notifications"
	"uniwiz/internal/repository"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertStatus(t *testing.T, want int, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, models.StatusFor(err), err.Error())
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)
	blocked := testutil.CreateUser(t, f.db, models.RoleStudent, testutil.Blocked)

	tests := []struct {
		name string
		in   SendMessageInput
		want int
	}{
		{"missing receiver", SendMessageInput{SenderID: student.ID, Text: "hi"}, http.StatusBadRequest},
		{"empty after stripping", SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, Text: "  <b></b> "}, http.StatusBadRequest},
		{"too long", SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, Text: strings.Repeat("a", 5001)}, http.StatusBadRequest},
		{"self", SendMessageInput{SenderID: student.ID, ReceiverID: student.ID, Text: "hi"}, http.StatusBadRequest},
		{"unknown receiver", SendMessageInput{SenderID: student.ID, ReceiverID: 9999, Text: "hi"}, http.StatusNotFound},
		{"blocked receiver", SendMessageInput{SenderID: student.ID, ReceiverID: blocked.ID, Text: "hi"}, http.StatusForbidden},
		{"blocked sender", SendMessageInput{SenderID: blocked.ID, ReceiverID: publisher.ID, Text: "hi"}, http.StatusForbidden},
		{"unknown job", SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, JobID: 9999, Text: "hi"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.chat.SendMessage(ctx, tt.in)
			assertStatus(t, tt.want, err)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestChatService_SendMessage_ExactlyFiveThousandCharacters(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateUser(t, f.db, models.RoleStudent)
	b := testutil.CreateUser(t, f.db, models.RolePublisher)

	res, err := f.chat.SendMessage(context.Background(), SendMessageInput{
		SenderID: a.ID, ReceiverID: b.ID, Text: strings.Repeat("é", 5000),
	})
	require.NoError(t, err)
	assert.Len(t, []rune(res.Message.MessageText), 5000)
}

func TestChatService_SendMessage_ResolvesSameConversationFromBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)
	job := testutil.CreateJob(t, f.db, publisher.ID)

	first, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, Text: "<b>Hello</b> there"})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", first.Message.MessageText)

	reply, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: publisher.ID, ReceiverID: student.ID, Text: "Hi!"})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, reply.ConversationID)

	again, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, Text: "Still there?"})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, again.ConversationID)

	aboutJob, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: student.ID, ReceiverID: publisher.ID, JobID: job.ID, Text: "About the job"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ConversationID, aboutJob.ConversationID)

	conv, err := f.chats.GetConversation(ctx, first.ConversationID)
	require.NoError(t, err)
	assert.Less(t, conv.UserOneID, conv.UserTwoID)

	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	sent := f.events.ofType(notifications.EventNewMessage)
	require.Len(t, sent, 4)
	assert.Equal(t, publisher.ID, sent[0].UserID)
	assert.Equal(t, student.ID, sent[1].UserID)
}

func TestChatService_StartConversationThenSend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)
	job := testutil.CreateJob(t, f.db, publisher.ID)

	conv, err := f.chat.StartConversation(ctx, student.ID, publisher.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, conv.JobID)

	again, err := f.chat.StartConversation(ctx, publisher.ID, student.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	res, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: publisher.ID, ReceiverID: student.ID, JobID: job.ID, Text: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, conv.ID, res.ConversationID)

	_, err = f.chat.StartConversation(ctx, student.ID, student.ID, 0)
	assertStatus(t, http.StatusBadRequest, err)
}

func TestChatService_GetMessagesForUser_MarksOnlyReceiverMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, models.RoleStudent)
	bob := testutil.CreateUser(t, f.db, models.RolePublisher)
	outsider := testutil.CreateUser(t, f.db, models.RoleStudent)

	res, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: alice.ID, ReceiverID: bob.ID, Text: "one"})
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, SendMessageInput{SenderID: alice.ID, ReceiverID: bob.ID, Text: "two"})
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, SendMessageInput{SenderID: bob.ID, ReceiverID: alice.ID, Text: "three"})
	require.NoError(t, err)

	messages, err := f.chat.GetMessagesForUser(ctx, res.ConversationID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{messages[0].MessageText, messages[1].MessageText, messages[2].MessageText})
	for _, m := range messages {
		if m.ReceiverID == bob.ID {
			assert.True(t, m.IsRead)
			assert.NotNil(t, m.ReadAt)
		} else {
			assert.False(t, m.IsRead, "messages to the other party stay unread")
		}
	}

	aliceUnread, err := f.chat.UnreadTotal(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), aliceUnread)

	read := f.events.ofType(notifications.EventMessagesRead)
	require.Len(t, read, 1)
	assert.Equal(t, alice.ID, read[0].UserID)

	// A second fetch changes nothing and publishes nothing.
	_, err = f.chat.GetMessagesForUser(ctx, res.ConversationID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, f.events.ofType(notifications.EventMessagesRead), 1)

	_, err = f.chat.GetMessagesForUser(ctx, res.ConversationID, outsider.ID)
	assertStatus(t, http.StatusForbidden, err)

	_, err = f.chat.GetMessagesForUser(ctx, 9999, bob.ID)
	assertStatus(t, http.StatusNotFound, err)
}

func TestChatService_GetMessagesForAdmin_LeavesReadStateAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, models.RoleStudent)
	bob := testutil.CreateUser(t, f.db, models.RolePublisher)

	res, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: alice.ID, ReceiverID: bob.ID, Text: "hello"})
	require.NoError(t, err)

	view, err := f.chat.GetMessagesForAdmin(ctx, res.ConversationID)
	require.NoError(t, err)
	require.Len(t, view.Messages, 1)
	assert.False(t, view.Messages[0].IsRead)
	require.Len(t, view.Participants, 2)

	unread, err := f.chat.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	_, err = f.chat.GetMessagesForAdmin(ctx, 9999)
	assertStatus(t, http.StatusNotFound, err)
}

func TestChatService_ListConversations_UnreadMatchesDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	pubA := testutil.CreateUser(t, f.db, models.RolePublisher)
	pubB := testutil.CreateUser(t, f.db, models.RolePublisher)
	job := testutil.CreateJob(t, f.db, pubB.ID)

	convA, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: pubA.ID, ReceiverID: student.ID, Text: "a1"})
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, SendMessageInput{SenderID: pubA.ID, ReceiverID: student.ID, Text: "a2"})
	require.NoError(t, err)
	convB, err := f.chat.SendMessage(ctx, SendMessageInput{SenderID: pubB.ID, ReceiverID: student.ID, JobID: job.ID, Text: "b1"})
	require.NoError(t, err)

	items, err := f.chat.ListConversations(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest activity first.
	assert.Equal(t, convB.ConversationID, items[0].ID)
	assert.Equal(t, job.Title, items[0].JobTitle)
	assert.Equal(t, pubB.CompanyName, items[0].OtherUser.Name)
	assert.Equal(t, int64(1), items[0].UnreadCount)
	require.NotNil(t, items[0].LastMessage)
	assert.Equal(t, "b1", items[0].LastMessage.MessageText)

	assert.Equal(t, convA.ConversationID, items[1].ID)
	assert.Equal(t, int64(2), items[1].UnreadCount)
	assert.Equal(t, "a2", items[1].LastMessage.MessageText)

	total, err := f.chat.UnreadTotal(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, items[0].UnreadCount+items[1].UnreadCount, total)

	messages, err := f.chat.GetMessagesForUser(ctx, convA.ConversationID, student.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	items, err = f.chat.ListConversations(ctx, student.ID)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == convA.ConversationID {
			assert.Zero(t, item.UnreadCount)
		}
	}
	total, err = f.chat.UnreadTotal(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// The senders see no unread messages of their own.
	pubTotal, err := f.chat.UnreadTotal(ctx, pubA.ID)
	require.NoError(t, err)
	assert.Zero(t, pubTotal)
}

func TestChatService_ListConversations_Empty(t *testing.T) {
	f := newFixture(t)
	u := testutil.CreateUser(t, f.db, models.RoleStudent)

	items, err := f.chat.ListConversations(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

// snapshotChatRepo answers plain reads from a snapshot taken before any
// conversation existed, the way a REPEATABLE READ transaction does.
type snapshotChatRepo struct {
	repository.ChatRepository
}

func (snapshotChatRepo) FindConversation(context.Context, uint, uint, uint) (*models.Conversation, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestResolveConversation_ReusesRowCommittedAfterSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, models.RoleStudent)
	b := testutil.CreateUser(t, f.db, models.RolePublisher)

	one, two := models.CanonicalPair(a.ID, b.ID)
	require.NoError(t, f.chats.InsertConversationIfAbsent(ctx, &models.Conversation{UserOneID: one, UserTwoID: two}))
	winner, err := f.chats.FindConversation(ctx, one, two, 0)
	require.NoError(t, err)

	conv, err := resolveConversation(ctx, snapshotChatRepo{f.chats}, b.ID, a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, conv.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
