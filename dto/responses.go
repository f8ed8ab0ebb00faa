package dto

// Profile is a user's public profile.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
	Language      string `json:"language"`
}

// MemberIDs is one page of a group or room member-ID listing. Next is
// the continuation token for the following page; empty on the last page.
type MemberIDs struct {
	MemberIDs []string `json:"memberIds"`
	Next      string   `json:"next"`
}

// MessagesDelivery is the number of messages sent through one send
// endpoint on a given date. Status is "ready" once the count is final.
type MessagesDelivery struct {
	Status  string `json:"status"`
	Success int64  `json:"success"`
}

// MessageQuota is the target limit for additional messages this month.
type MessageQuota struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// QuotaConsumption is the number of messages sent this month.
type QuotaConsumption struct {
	TotalUsage int64 `json:"totalUsage"`
}

// LinkToken is issued for the account link feature.
type LinkToken struct {
	LinkToken string `json:"linkToken"`
}

// ChannelToken is a short-lived channel access token.
type ChannelToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
