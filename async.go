package linekit

import (
	"context"

	"github.com/linekit-go/linekit/dto"
	"github.com/linekit-go/linekit/transport"
)

// Call is the pending result of one non-blocking API call. Each call
// runs on its own goroutine; Await suspends until the call settles or
// the waiting context ends. Independent calls complete in any order.
type Call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed when the call settles. It can be selected on alongside
// other channels.
func (c *Call[T]) Done() <-chan struct{} { return c.done }

// Await blocks until the call settles and returns its outcome. A ctx
// that ends first returns ctx.Err(); the call itself keeps running and
// can be awaited again.
func (c *Call[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func begin[T any](fn func() (T, error)) *Call[T] {
	c := &Call[T]{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		c.val, c.err = fn()
	}()

	return c
}

func beginVoid(fn func() error) *Call[struct{}] {
	return begin(func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// AsyncClient is the non-blocking facade over the Messaging API. It is
// synthesized from the same endpoint catalog as [Client] and shares its
// validation, request construction, and error mapping; only the
// concurrency contract differs. Each method returns immediately with a
// [Call] that settles when the response arrives.
type AsyncClient struct {
	core *core
}

// NewAsync builds a ready-to-use non-blocking client. See [New].
func NewAsync(channelToken string, opts ...Option) (*AsyncClient, error) {
	co, err := newCore(channelToken, opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{core: co}, nil
}

// ReplyMessage answers an inbound event using its one-shot reply token.
func (a *AsyncClient) ReplyMessage(ctx context.Context, replyToken string, messages ...dto.Message) *Call[struct{}] {
	return beginVoid(func() error { return a.core.replyMessage(ctx, replyToken, messages) })
}

// PushMessage sends up to 5 messages to a user, group, or room.
func (a *AsyncClient) PushMessage(ctx context.Context, to string, messages ...dto.Message) *Call[struct{}] {
	return beginVoid(func() error { return a.core.pushMessage(ctx, to, messages) })
}

// Multicast sends up to 5 messages to up to 150 users at once.
func (a *AsyncClient) Multicast(ctx context.Context, to []string, messages ...dto.Message) *Call[struct{}] {
	return beginVoid(func() error { return a.core.multicast(ctx, to, messages) })
}

// Broadcast sends up to 5 messages to every friend of the bot.
func (a *AsyncClient) Broadcast(ctx context.Context, messages ...dto.Message) *Call[struct{}] {
	return beginVoid(func() error { return a.core.broadcast(ctx, messages) })
}

// GetMessageDeliveryBroadcast counts broadcast messages sent on date.
func (a *AsyncClient) GetMessageDeliveryBroadcast(ctx context.Context, date string) *Call[*dto.MessagesDelivery] {
	return begin(func() (*dto.MessagesDelivery, error) {
		return a.core.messageDelivery(ctx, opGetMessageDeliveryBroadcast, date)
	})
}

// GetMessageDeliveryReply counts reply messages sent on date.
func (a *AsyncClient) GetMessageDeliveryReply(ctx context.Context, date string) *Call[*dto.MessagesDelivery] {
	return begin(func() (*dto.MessagesDelivery, error) {
		return a.core.messageDelivery(ctx, opGetMessageDeliveryReply, date)
	})
}

// GetMessageDeliveryPush counts push messages sent on date.
func (a *AsyncClient) GetMessageDeliveryPush(ctx context.Context, date string) *Call[*dto.MessagesDelivery] {
	return begin(func() (*dto.MessagesDelivery, error) {
		return a.core.messageDelivery(ctx, opGetMessageDeliveryPush, date)
	})
}

// GetMessageDeliveryMulticast counts multicast messages sent on date.
func (a *AsyncClient) GetMessageDeliveryMulticast(ctx context.Context, date string) *Call[*dto.MessagesDelivery] {
	return begin(func() (*dto.MessagesDelivery, error) {
		return a.core.messageDelivery(ctx, opGetMessageDeliveryMulticast, date)
	})
}

// GetProfile fetches a user's profile.
func (a *AsyncClient) GetProfile(ctx context.Context, userID string) *Call[*dto.Profile] {
	return begin(func() (*dto.Profile, error) { return a.core.getProfile(ctx, userID) })
}

// GetGroupMemberProfile fetches the profile of a group member.
func (a *AsyncClient) GetGroupMemberProfile(ctx context.Context, groupID, userID string) *Call[*dto.Profile] {
	return begin(func() (*dto.Profile, error) { return a.core.getGroupMemberProfile(ctx, groupID, userID) })
}

// GetRoomMemberProfile fetches the profile of a room member.
func (a *AsyncClient) GetRoomMemberProfile(ctx context.Context, roomID, userID string) *Call[*dto.Profile] {
	return begin(func() (*dto.Profile, error) { return a.core.getRoomMemberProfile(ctx, roomID, userID) })
}

// GetGroupMemberIDs pages through the member IDs of a group.
func (a *AsyncClient) GetGroupMemberIDs(ctx context.Context, groupID, start string) *Call[*dto.MemberIDs] {
	return begin(func() (*dto.MemberIDs, error) { return a.core.getGroupMemberIDs(ctx, groupID, start) })
}

// GetRoomMemberIDs pages through the member IDs of a room.
func (a *AsyncClient) GetRoomMemberIDs(ctx context.Context, roomID, start string) *Call[*dto.MemberIDs] {
	return begin(func() (*dto.MemberIDs, error) { return a.core.getRoomMemberIDs(ctx, roomID, start) })
}

// GetMessageContent streams the binary content of a message. The call
// settles once status and headers arrive; the caller owns the stream.
func (a *AsyncClient) GetMessageContent(ctx context.Context, messageID string) *Call[*transport.Stream] {
	return begin(func() (*transport.Stream, error) { return a.core.getMessageContent(ctx, messageID) })
}

// LeaveGroup makes the bot leave a group.
func (a *AsyncClient) LeaveGroup(ctx context.Context, groupID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.leaveGroup(ctx, groupID) })
}

// LeaveRoom makes the bot leave a room.
func (a *AsyncClient) LeaveRoom(ctx context.Context, roomID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.leaveRoom(ctx, roomID) })
}

// GetRichMenu fetches a stored rich menu by ID.
func (a *AsyncClient) GetRichMenu(ctx context.Context, richMenuID string) *Call[*dto.RichMenuResponse] {
	return begin(func() (*dto.RichMenuResponse, error) { return a.core.getRichMenu(ctx, richMenuID) })
}

// CreateRichMenu stores a rich menu and returns its assigned ID.
func (a *AsyncClient) CreateRichMenu(ctx context.Context, menu dto.RichMenu) *Call[string] {
	return begin(func() (string, error) { return a.core.createRichMenu(ctx, menu) })
}

// DeleteRichMenu deletes a stored rich menu.
func (a *AsyncClient) DeleteRichMenu(ctx context.Context, richMenuID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.deleteRichMenu(ctx, richMenuID) })
}

// GetRichMenuList returns every stored rich menu.
func (a *AsyncClient) GetRichMenuList(ctx context.Context) *Call[[]dto.RichMenuResponse] {
	return begin(func() ([]dto.RichMenuResponse, error) { return a.core.getRichMenuList(ctx) })
}

// GetRichMenuIDOfUser returns the ID of the rich menu linked to a user.
func (a *AsyncClient) GetRichMenuIDOfUser(ctx context.Context, userID string) *Call[string] {
	return begin(func() (string, error) { return a.core.getRichMenuIDOfUser(ctx, userID) })
}

// LinkRichMenuToUser links a stored rich menu to a single user.
func (a *AsyncClient) LinkRichMenuToUser(ctx context.Context, userID, richMenuID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.linkRichMenuToUser(ctx, userID, richMenuID) })
}

// LinkRichMenuToUsers links a stored rich menu to up to 150 users.
func (a *AsyncClient) LinkRichMenuToUsers(ctx context.Context, userIDs []string, richMenuID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.linkRichMenuToUsers(ctx, userIDs, richMenuID) })
}

// UnlinkRichMenuFromUser unlinks the user's rich menu.
func (a *AsyncClient) UnlinkRichMenuFromUser(ctx context.Context, userID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.unlinkRichMenuFromUser(ctx, userID) })
}

// UnlinkRichMenuFromUsers unlinks rich menus from up to 150 users.
func (a *AsyncClient) UnlinkRichMenuFromUsers(ctx context.Context, userIDs []string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.unlinkRichMenuFromUsers(ctx, userIDs) })
}

// GetRichMenuImage streams the image attached to a rich menu.
func (a *AsyncClient) GetRichMenuImage(ctx context.Context, richMenuID string) *Call[*transport.Stream] {
	return begin(func() (*transport.Stream, error) { return a.core.getRichMenuImage(ctx, richMenuID) })
}

// SetRichMenuImage uploads and attaches an image to a stored rich menu.
func (a *AsyncClient) SetRichMenuImage(ctx context.Context, richMenuID, contentType string, content []byte) *Call[struct{}] {
	return beginVoid(func() error { return a.core.setRichMenuImage(ctx, richMenuID, contentType, content) })
}

// SetDefaultRichMenu sets the default rich menu shown to all users.
func (a *AsyncClient) SetDefaultRichMenu(ctx context.Context, richMenuID string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.setDefaultRichMenu(ctx, richMenuID) })
}

// GetDefaultRichMenu returns the ID of the default rich menu.
func (a *AsyncClient) GetDefaultRichMenu(ctx context.Context) *Call[string] {
	return begin(func() (string, error) { return a.core.getDefaultRichMenu(ctx) })
}

// CancelDefaultRichMenu clears the default rich menu.
func (a *AsyncClient) CancelDefaultRichMenu(ctx context.Context) *Call[struct{}] {
	return beginVoid(func() error { return a.core.cancelDefaultRichMenu(ctx) })
}

// GetMessageQuota returns this month's target limit for additional
// messages.
func (a *AsyncClient) GetMessageQuota(ctx context.Context) *Call[*dto.MessageQuota] {
	return begin(func() (*dto.MessageQuota, error) { return a.core.getMessageQuota(ctx) })
}

// GetMessageQuotaConsumption returns the number of messages sent this
// month.
func (a *AsyncClient) GetMessageQuotaConsumption(ctx context.Context) *Call[*dto.QuotaConsumption] {
	return begin(func() (*dto.QuotaConsumption, error) { return a.core.getMessageQuotaConsumption(ctx) })
}

// IssueLinkToken issues a token for the account link feature.
func (a *AsyncClient) IssueLinkToken(ctx context.Context, userID string) *Call[*dto.LinkToken] {
	return begin(func() (*dto.LinkToken, error) { return a.core.issueLinkToken(ctx, userID) })
}

// IssueChannelToken issues a short-lived channel access token.
func (a *AsyncClient) IssueChannelToken(ctx context.Context, clientID, clientSecret string) *Call[*dto.ChannelToken] {
	return begin(func() (*dto.ChannelToken, error) { return a.core.issueChannelToken(ctx, clientID, clientSecret) })
}

// RevokeChannelToken revokes a channel access token.
func (a *AsyncClient) RevokeChannelToken(ctx context.Context, accessToken string) *Call[struct{}] {
	return beginVoid(func() error { return a.core.revokeChannelToken(ctx, accessToken) })
}
