package dto

// Request bodies. Constraint tags mirror the platform's documented
// limits: at most 5 messages per send, at most 150 recipients per bulk
// operation. Violations surface as a ValidationError before any network
// round trip.

// ReplyRequest answers an inbound event using its one-shot reply token.
type ReplyRequest struct {
	ReplyToken           string    `json:"replyToken" validate:"required"`
	Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

// PushRequest sends messages to a single user, group, or room.
type PushRequest struct {
	To                   string    `json:"to" validate:"required"`
	Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

// MulticastRequest sends messages to up to 150 users at once.
type MulticastRequest struct {
	To                   []string  `json:"to" validate:"required,min=1,max=150,dive,required"`
	Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

// BroadcastRequest sends messages to every friend of the bot.
type BroadcastRequest struct {
	Messages             []Message `json:"messages" validate:"required,min=1,max=5"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

// BulkLinkRequest links one rich menu to up to 150 users.
type BulkLinkRequest struct {
	RichMenuID string   `json:"richMenuId" validate:"required"`
	UserIDs    []string `json:"userIds" validate:"required,min=1,max=150,dive,required"`
}

// BulkUnlinkRequest unlinks rich menus from up to 150 users.
type BulkUnlinkRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,max=150,dive,required"`
}

// ChannelTokenRequest issues a short-lived channel access token. It is
// form-encoded on the wire, unlike the JSON convention used elsewhere.
type ChannelTokenRequest struct {
	GrantType    string `schema:"grant_type" validate:"required"`
	ClientID     string `schema:"client_id" validate:"required"`
	ClientSecret string `schema:"client_secret" validate:"required"`
}

// ChannelTokenRevokeRequest revokes a channel access token. Form-encoded.
type ChannelTokenRevokeRequest struct {
	AccessToken string `schema:"access_token" validate:"required"`
}

// DeliveryQuery keys a delivery-count lookup by send date (UTC+9).
type DeliveryQuery struct {
	Date string `schema:"date" validate:"required,datetime=20060102"`
}

// MemberIDsQuery pages through a member-ID listing. An empty Start
// requests the first page.
type MemberIDsQuery struct {
	Start string `schema:"start,omitempty"`
}
