// Package dto carries the request and response objects exchanged with the
// Messaging API, the codec that (de)serializes them, and the validation
// rules enforced before any network round trip.
package dto

import (
	"encoding/json"
	"fmt"
)

// Codec encodes request objects to wire bytes and decodes response bytes
// into typed objects. The transport and synthesis layers treat it as an
// opaque collaborator; replace it to change the serialization strategy.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec is the default Codec, backed by encoding/json.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return b, nil
}

func (JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding into %T: %w", v, err)
	}
	return nil
}

// DecodeError reports a response body that did not match its declared
// shape. It is surfaced to the caller rather than silently defaulted.
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeFunc decodes a success body into the DTO registered for a
// catalog result key.
type DecodeFunc func(c Codec, data []byte) (any, error)

func decodeAs[T any](name string) DecodeFunc {
	return func(c Codec, data []byte) (any, error) {
		v := new(T)
		if err := c.Decode(data, v); err != nil {
			return nil, &DecodeError{Target: name, Err: err}
		}
		return v, nil
	}
}

// Results maps catalog result keys to their decoders. Synthesis fails
// fast on a descriptor whose result key has no entry here.
var Results = map[string]DecodeFunc{
	"profile":          decodeAs[Profile]("profile"),
	"memberIDs":        decodeAs[MemberIDs]("memberIDs"),
	"messagesDelivery": decodeAs[MessagesDelivery]("messagesDelivery"),
	"richMenu":         decodeAs[RichMenuResponse]("richMenu"),
	"richMenuList":     decodeAs[RichMenuList]("richMenuList"),
	"richMenuID":       decodeAs[RichMenuID]("richMenuID"),
	"messageQuota":     decodeAs[MessageQuota]("messageQuota"),
	"quotaConsumption": decodeAs[QuotaConsumption]("quotaConsumption"),
	"linkToken":        decodeAs[LinkToken]("linkToken"),
	"channelToken":     decodeAs[ChannelToken]("channelToken"),
}
