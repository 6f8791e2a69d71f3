package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"menthub/internal/core/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectUser dials as a fresh user and drains the connection-time events
// (online_users snapshot plus the user's own online broadcast).
func connectUser(t *testing.T, env *testEnv, token string) *websocket.Conn {
	t.Helper()

	ws := env.connect(t, token)
	event := readEvent(t, ws)
	require.Equal(t, EventOnlineUsers, event.Type)
	event = readEvent(t, ws)
	require.Equal(t, EventUserOnline, event.Type)
	return ws
}

func decodeMessage(t *testing.T, payload json.RawMessage) domain.Message {
	t.Helper()

	var msg domain.Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func TestDirectMessageDeliveryAndEcho(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "hi", ReceiverID: "bob"})

	echo := expectEvent(t, wsA, EventMessageSent)
	sent := decodeMessage(t, echo.Payload)
	assert.NotEmpty(t, sent.ID)
	assert.Equal(t, domain.UserID("alice"), sent.SenderID)
	assert.Equal(t, domain.UserID("bob"), sent.ReceiverID)
	assert.Equal(t, "hi", sent.Content)
	assert.False(t, sent.CreatedAt.IsZero())

	delivered := expectEvent(t, wsB, EventNewMessage)
	got := decodeMessage(t, delivered.Payload)
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "User alice", got.SenderName)

	// The persisted record backs the history query.
	msgs, err := env.messages.Conversation(context.Background(), "alice", "bob", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, sent.ID, msgs[0].ID)
}

func TestEchoGuaranteeWithOfflineRecipient(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)

	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "hi", ReceiverID: "bob"})

	// Sender still gets the server-confirmed echo.
	echo := expectEvent(t, wsA, EventMessageSent)
	sent := decodeMessage(t, echo.Payload)
	assert.NotEmpty(t, sent.ID)
	assert.False(t, sent.CreatedAt.IsZero())

	// The message lands in the store for bob's next history fetch.
	msgs, err := env.messages.Conversation(context.Background(), "bob", "alice", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// The durable notification is written even though the live emit had
	// no target.
	require.Eventually(t, func() bool {
		list, err := env.notifications.ListByUser(context.Background(), "bob", 10)
		return err == nil && len(list) == 1
	}, eventWait, 10*time.Millisecond)
}

func TestAmbiguousTargetRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)

	ws := connectUser(t, env, token)

	// Both targets set.
	sendEvent(t, ws, EventSendMessage, SendMessagePayload{Content: "hi", ReceiverID: "bob", GroupID: "study-1"})
	event := expectEvent(t, ws, EventMessageError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Contains(t, payload.Error, "both")

	// Neither target set.
	sendEvent(t, ws, EventSendMessage, SendMessagePayload{Content: "hi"})
	event = expectEvent(t, ws, EventMessageError)
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Contains(t, payload.Error, "neither")

	// Nothing was persisted.
	msgs, err := env.messages.Conversation(context.Background(), "alice", "bob", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSelfMessageSuppressesNotification(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)

	ws := connectUser(t, env, token)

	sendEvent(t, ws, EventSendMessage, SendMessagePayload{Content: "note to self", ReceiverID: "alice"})
	expectEvent(t, ws, EventMessageSent)

	// Give any stray background task time to run, then assert nothing
	// was recorded.
	time.Sleep(200 * time.Millisecond)
	list, err := env.notifications.ListByUser(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGroupMessageReachesJoinedConnectionsOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)
	tokenC := env.seedUser(t, "carol", domain.RoleMentee, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)
	wsC := connectUser(t, env, tokenC)

	sendEvent(t, wsA, EventJoinRoom, JoinRoomPayload{RoomID: "study-1"})
	sendEvent(t, wsB, EventJoinRoom, JoinRoomPayload{RoomID: "study-1"})

	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "hello group", GroupID: "study-1"})

	delivered := expectEvent(t, wsB, EventNewMessage)
	got := decodeMessage(t, delivered.Payload)
	assert.Equal(t, domain.GroupID("study-1"), got.GroupID)
	assert.Equal(t, "hello group", got.Content)

	expectEvent(t, wsA, EventMessageSent)

	// No notification side effect for group messages.
	time.Sleep(200 * time.Millisecond)
	list, err := env.notifications.ListByUser(context.Background(), "bob", 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Carol never joined the room.
	expectNoEvent(t, wsC, 300*time.Millisecond)
}

func TestGroupIDCannotReachIdentityOrRoleChannels(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	// A group id spelled like an identity or role channel routes to the
	// group namespace, where nobody has joined.
	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "sneak", GroupID: "user_bob"})
	expectEvent(t, wsA, EventMessageSent)

	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "sneak", GroupID: "role_mentor"})
	expectEvent(t, wsA, EventMessageSent)

	sendEvent(t, wsA, EventTypingStart, TypingPayload{GroupID: "user_bob"})

	expectNoEvent(t, wsB, 300*time.Millisecond)
}

type failingMessageRepo struct{}

func (failingMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	return errors.New("store down")
}

func (failingMessageRepo) GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	return nil, domain.ErrMessageNotFound
}

func (failingMessageRepo) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error) {
	return nil, nil
}

func (failingMessageRepo) GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error) {
	return nil, nil
}

func (failingMessageRepo) SoftDelete(ctx context.Context, id domain.MessageID, requester domain.UserID) error {
	return domain.ErrMessageNotFound
}

func TestPersistenceFailureSurfacesToSenderOnly(t *testing.T) {
	env := newTestEnv(t, failingMessageRepo{})
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	sendEvent(t, wsA, EventSendMessage, SendMessagePayload{Content: "hi", ReceiverID: "bob"})

	event := expectEvent(t, wsA, EventMessageError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Contains(t, payload.Error, "store down")

	// Nothing is relayed to the recipient.
	expectNoEvent(t, wsB, 300*time.Millisecond)
}

func TestTypingIndicators(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	sendEvent(t, wsA, EventTypingStart, TypingPayload{ReceiverID: "bob"})
	event := expectEvent(t, wsB, EventUserTyping)
	var notice TypingNotice
	require.NoError(t, json.Unmarshal(event.Payload, &notice))
	assert.Equal(t, domain.UserID("alice"), notice.UserID)
	assert.Equal(t, "User alice", notice.Name)

	sendEvent(t, wsA, EventTypingStop, TypingPayload{ReceiverID: "bob"})
	event = expectEvent(t, wsB, EventUserStoppedTyping)
	require.NoError(t, json.Unmarshal(event.Payload, &notice))
	assert.Equal(t, domain.UserID("alice"), notice.UserID)
}

func TestCallSignalingPassThrough(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0\r\no=- 1 1 IN IP4 0.0.0.0\r\n"}`)
	sendEvent(t, wsA, EventCallUser, CallUserPayload{ReceiverID: "bob", Offer: offer})

	incoming := expectEvent(t, wsB, EventIncomingCall)
	var call IncomingCallPayload
	require.NoError(t, json.Unmarshal(incoming.Payload, &call))
	assert.Equal(t, domain.UserID("alice"), call.CallerID)
	assert.Equal(t, "User alice", call.CallerName)
	// Opaque relay: the offer round-trips without transformation.
	assert.JSONEq(t, string(offer), string(call.Offer))

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0\r\no=- 2 2 IN IP4 0.0.0.0\r\n"}`)
	sendEvent(t, wsB, EventAnswerCall, AnswerCallPayload{CallerID: "alice", Answer: answer})

	answered := expectEvent(t, wsA, EventCallAnswered)
	var answeredPayload CallAnsweredPayload
	require.NoError(t, json.Unmarshal(answered.Payload, &answeredPayload))
	assert.JSONEq(t, string(answer), string(answeredPayload.Answer))

	candidate := json.RawMessage(`{"candidate":"candidate:1 1 UDP 2130706431 192.0.2.1 54321 typ host","sdpMid":"0"}`)
	sendEvent(t, wsB, EventICECandidate, ICECandidatePayload{ReceiverID: "alice", Candidate: candidate})

	ice := expectEvent(t, wsA, EventICECandidate)
	var iceNotice CandidateNotice
	require.NoError(t, json.Unmarshal(ice.Payload, &iceNotice))
	assert.JSONEq(t, string(candidate), string(iceNotice.Candidate))

	sendEvent(t, wsA, EventEndCall, EndCallPayload{ReceiverID: "bob"})
	ended := expectEvent(t, wsB, EventCallEnded)
	assert.Equal(t, EventCallEnded, ended.Type)
}

func TestCallRejection(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	tokenB := env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)
	wsB := connectUser(t, env, tokenB)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n"}`)
	sendEvent(t, wsA, EventCallUser, CallUserPayload{ReceiverID: "bob", Offer: offer})
	expectEvent(t, wsB, EventIncomingCall)

	sendEvent(t, wsB, EventRejectCall, RejectCallPayload{CallerID: "alice"})
	rejected := expectEvent(t, wsA, EventCallRejected)
	assert.Equal(t, EventCallRejected, rejected.Type)
}

func TestOfflineCalleeSilentDrop(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA := env.seedUser(t, "alice", domain.RoleMentee, domain.StatusActive)
	env.seedUser(t, "bob", domain.RoleMentor, domain.StatusActive)

	wsA := connectUser(t, env, tokenA)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n"}`)
	sendEvent(t, wsA, EventCallUser, CallUserPayload{ReceiverID: "bob", Offer: offer})

	// No error, no event anywhere: the caller's client must time out on
	// its own.
	expectNoEvent(t, wsA, 300*time.Millisecond)
}
