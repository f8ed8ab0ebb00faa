package linekit

import (
	"context"

	"github.com/linekit-go/linekit/dto"
	"github.com/linekit-go/linekit/transport"
)

// Client is the blocking facade over the Messaging API. Every method
// suspends the calling goroutine until the response is available (or,
// for streaming methods, until status and headers arrive). Pass a
// context with a deadline to bound an individual call.
type Client struct {
	core *core
}

// New builds a ready-to-use blocking client. The method table is
// synthesized (or loaded from a fresh cache snapshot) here, before any
// call can be dispatched; there are no import-time side effects.
func New(channelToken string, opts ...Option) (*Client, error) {
	co, err := newCore(channelToken, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{core: co}, nil
}

// ReplyMessage answers an inbound event using its one-shot reply token.
// At most 5 messages per call.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, messages ...dto.Message) error {
	return c.core.replyMessage(ctx, replyToken, messages)
}

// PushMessage sends up to 5 messages to a user, group, or room.
func (c *Client) PushMessage(ctx context.Context, to string, messages ...dto.Message) error {
	return c.core.pushMessage(ctx, to, messages)
}

// Multicast sends up to 5 messages to up to 150 users at once.
func (c *Client) Multicast(ctx context.Context, to []string, messages ...dto.Message) error {
	return c.core.multicast(ctx, to, messages)
}

// Broadcast sends up to 5 messages to every friend of the bot.
func (c *Client) Broadcast(ctx context.Context, messages ...dto.Message) error {
	return c.core.broadcast(ctx, messages)
}

// GetMessageDeliveryBroadcast returns the number of broadcast messages
// sent on the given date (yyyyMMdd, UTC+9).
func (c *Client) GetMessageDeliveryBroadcast(ctx context.Context, date string) (*dto.MessagesDelivery, error) {
	return c.core.messageDelivery(ctx, opGetMessageDeliveryBroadcast, date)
}

// GetMessageDeliveryReply returns the number of reply messages sent on
// the given date (yyyyMMdd, UTC+9).
func (c *Client) GetMessageDeliveryReply(ctx context.Context, date string) (*dto.MessagesDelivery, error) {
	return c.core.messageDelivery(ctx, opGetMessageDeliveryReply, date)
}

// GetMessageDeliveryPush returns the number of push messages sent on
// the given date (yyyyMMdd, UTC+9).
func (c *Client) GetMessageDeliveryPush(ctx context.Context, date string) (*dto.MessagesDelivery, error) {
	return c.core.messageDelivery(ctx, opGetMessageDeliveryPush, date)
}

// GetMessageDeliveryMulticast returns the number of multicast messages
// sent on the given date (yyyyMMdd, UTC+9).
func (c *Client) GetMessageDeliveryMulticast(ctx context.Context, date string) (*dto.MessagesDelivery, error) {
	return c.core.messageDelivery(ctx, opGetMessageDeliveryMulticast, date)
}

// GetProfile fetches a user's profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*dto.Profile, error) {
	return c.core.getProfile(ctx, userID)
}

// GetGroupMemberProfile fetches the profile of a group member, even one
// who has not friended the bot.
func (c *Client) GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*dto.Profile, error) {
	return c.core.getGroupMemberProfile(ctx, groupID, userID)
}

// GetRoomMemberProfile fetches the profile of a room member.
func (c *Client) GetRoomMemberProfile(ctx context.Context, roomID, userID string) (*dto.Profile, error) {
	return c.core.getRoomMemberProfile(ctx, roomID, userID)
}

// GetGroupMemberIDs pages through the member IDs of a group. Pass the
// previous page's continuation token as start, or "" for the first page.
func (c *Client) GetGroupMemberIDs(ctx context.Context, groupID, start string) (*dto.MemberIDs, error) {
	return c.core.getGroupMemberIDs(ctx, groupID, start)
}

// GetRoomMemberIDs pages through the member IDs of a room.
func (c *Client) GetRoomMemberIDs(ctx context.Context, roomID, start string) (*dto.MemberIDs, error) {
	return c.core.getRoomMemberIDs(ctx, roomID, start)
}

// GetMessageContent streams the binary content (image, video, audio) of
// a message. The caller owns the returned stream and must close it.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) (*transport.Stream, error) {
	return c.core.getMessageContent(ctx, messageID)
}

// LeaveGroup makes the bot leave a group.
func (c *Client) LeaveGroup(ctx context.Context, groupID string) error {
	return c.core.leaveGroup(ctx, groupID)
}

// LeaveRoom makes the bot leave a room.
func (c *Client) LeaveRoom(ctx context.Context, roomID string) error {
	return c.core.leaveRoom(ctx, roomID)
}

// GetRichMenu fetches a stored rich menu by ID.
func (c *Client) GetRichMenu(ctx context.Context, richMenuID string) (*dto.RichMenuResponse, error) {
	return c.core.getRichMenu(ctx, richMenuID)
}

// CreateRichMenu stores a rich menu and returns its assigned ID.
func (c *Client) CreateRichMenu(ctx context.Context, menu dto.RichMenu) (string, error) {
	return c.core.createRichMenu(ctx, menu)
}

// DeleteRichMenu deletes a stored rich menu.
func (c *Client) DeleteRichMenu(ctx context.Context, richMenuID string) error {
	return c.core.deleteRichMenu(ctx, richMenuID)
}

// GetRichMenuList returns every stored rich menu.
func (c *Client) GetRichMenuList(ctx context.Context) ([]dto.RichMenuResponse, error) {
	return c.core.getRichMenuList(ctx)
}

// GetRichMenuIDOfUser returns the ID of the rich menu linked to a user.
func (c *Client) GetRichMenuIDOfUser(ctx context.Context, userID string) (string, error) {
	return c.core.getRichMenuIDOfUser(ctx, userID)
}

// LinkRichMenuToUser links a stored rich menu to a single user.
func (c *Client) LinkRichMenuToUser(ctx context.Context, userID, richMenuID string) error {
	return c.core.linkRichMenuToUser(ctx, userID, richMenuID)
}

// LinkRichMenuToUsers links a stored rich menu to up to 150 users.
func (c *Client) LinkRichMenuToUsers(ctx context.Context, userIDs []string, richMenuID string) error {
	return c.core.linkRichMenuToUsers(ctx, userIDs, richMenuID)
}

// UnlinkRichMenuFromUser unlinks the user's rich menu.
func (c *Client) UnlinkRichMenuFromUser(ctx context.Context, userID string) error {
	return c.core.unlinkRichMenuFromUser(ctx, userID)
}

// UnlinkRichMenuFromUsers unlinks rich menus from up to 150 users.
func (c *Client) UnlinkRichMenuFromUsers(ctx context.Context, userIDs []string) error {
	return c.core.unlinkRichMenuFromUsers(ctx, userIDs)
}

// GetRichMenuImage streams the image attached to a rich menu. The
// caller owns the returned stream and must close it.
func (c *Client) GetRichMenuImage(ctx context.Context, richMenuID string) (*transport.Stream, error) {
	return c.core.getRichMenuImage(ctx, richMenuID)
}

// SetRichMenuImage uploads and attaches an image (image/jpeg or
// image/png) to a stored rich menu.
func (c *Client) SetRichMenuImage(ctx context.Context, richMenuID, contentType string, content []byte) error {
	return c.core.setRichMenuImage(ctx, richMenuID, contentType, content)
}

// SetDefaultRichMenu sets the default rich menu shown to all users.
func (c *Client) SetDefaultRichMenu(ctx context.Context, richMenuID string) error {
	return c.core.setDefaultRichMenu(ctx, richMenuID)
}

// GetDefaultRichMenu returns the ID of the default rich menu.
func (c *Client) GetDefaultRichMenu(ctx context.Context) (string, error) {
	return c.core.getDefaultRichMenu(ctx)
}

// CancelDefaultRichMenu clears the default rich menu.
func (c *Client) CancelDefaultRichMenu(ctx context.Context) error {
	return c.core.cancelDefaultRichMenu(ctx)
}

// GetMessageQuota returns this month's target limit for additional
// messages.
func (c *Client) GetMessageQuota(ctx context.Context) (*dto.MessageQuota, error) {
	return c.core.getMessageQuota(ctx)
}

// GetMessageQuotaConsumption returns the number of messages sent this
// month.
func (c *Client) GetMessageQuotaConsumption(ctx context.Context) (*dto.QuotaConsumption, error) {
	return c.core.getMessageQuotaConsumption(ctx)
}

// IssueLinkToken issues a token for the account link feature.
func (c *Client) IssueLinkToken(ctx context.Context, userID string) (*dto.LinkToken, error) {
	return c.core.issueLinkToken(ctx, userID)
}

// IssueChannelToken issues a short-lived channel access token. Unlike
// the other endpoints this request is form-encoded on the wire.
func (c *Client) IssueChannelToken(ctx context.Context, clientID, clientSecret string) (*dto.ChannelToken, error) {
	return c.core.issueChannelToken(ctx, clientID, clientSecret)
}

// RevokeChannelToken revokes a channel access token.
func (c *Client) RevokeChannelToken(ctx context.Context, accessToken string) error {
	return c.core.revokeChannelToken(ctx, accessToken)
}
