package dto

// Message is an outbound message payload. The concrete types below cover
// the common cases; anything implementing the interface and marshaling to
// a valid message object can be sent.
type Message interface {
	message()
}

// TextMessage is a plain text message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text" validate:"required,max=5000"`
}

func (TextMessage) message() {}

// NewTextMessage returns a TextMessage with the type discriminator set.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// ImageMessage references a hosted image by URL.
type ImageMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl" validate:"required,url"`
	PreviewImageURL    string `json:"previewImageUrl" validate:"required,url"`
}

func (ImageMessage) message() {}

// NewImageMessage returns an ImageMessage with the type discriminator set.
func NewImageMessage(originalURL, previewURL string) ImageMessage {
	return ImageMessage{Type: "image", OriginalContentURL: originalURL, PreviewImageURL: previewURL}
}

// StickerMessage sends a sticker from a sticker package.
type StickerMessage struct {
	Type      string `json:"type"`
	PackageID string `json:"packageId" validate:"required"`
	StickerID string `json:"stickerId" validate:"required"`
}

func (StickerMessage) message() {}

// NewStickerMessage returns a StickerMessage with the type discriminator set.
func NewStickerMessage(packageID, stickerID string) StickerMessage {
	return StickerMessage{Type: "sticker", PackageID: packageID, StickerID: stickerID}
}
