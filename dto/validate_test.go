package dto_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/linekit-go/linekit/dto"
)

func TestValidate_MulticastRecipientBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		recipients int
		wantErr    bool
	}{
		{"one recipient", 1, false},
		{"at the limit", 150, false},
		{"over the limit", 151, true},
		{"no recipients", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			to := make([]string, tt.recipients)
			for i := range to {
				to[i] = "U1"
			}

			req := dto.MulticastRequest{
				To:       to,
				Messages: []dto.Message{dto.NewTextMessage("hi")},
			}

			err := dto.Validate(req)
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error for %d recipients", tt.recipients)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_MessageCountBounds(t *testing.T) {
	t.Parallel()

	six := make([]dto.Message, 6)
	for i := range six {
		six[i] = dto.NewTextMessage("hi")
	}

	err := dto.Validate(dto.PushRequest{To: "U1", Messages: six})
	if err == nil {
		t.Fatal("expected validation error for 6 messages")
	}

	var fields dto.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if !strings.Contains(fields.Error(), "messages") {
		t.Errorf("expected the 'messages' field to be reported, got %q", fields.Error())
	}
}

func TestValidate_FieldsReportedByWireName(t *testing.T) {
	t.Parallel()

	err := dto.Validate(dto.ReplyRequest{Messages: []dto.Message{dto.NewTextMessage("hi")}})
	if err == nil {
		t.Fatal("expected validation error for missing reply token")
	}

	var fields dto.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if fields[0].Field != "replyToken" {
		t.Errorf("expected json field name 'replyToken', got %q", fields[0].Field)
	}
}

func TestValidate_DeliveryDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"valid date", "20260115", false},
		{"dashed date", "2026-01-15", true},
		{"too short", "202601", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := dto.Validate(dto.DeliveryQuery{Date: tt.date})
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for date %q", tt.date)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for date %q: %v", tt.date, err)
			}
		})
	}
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := dto.JSONCodec{}

	b, err := codec.Encode(dto.PushRequest{To: "U1", Messages: []dto.Message{dto.NewTextMessage("hi")}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(b), `"to":"U1"`) {
		t.Errorf("unexpected wire form: %s", b)
	}

	var profile dto.Profile
	if err := codec.Decode([]byte(`{"userId":"U1","displayName":"Ada"}`), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.DisplayName != "Ada" {
		t.Errorf("expected display name Ada, got %q", profile.DisplayName)
	}
}

func TestResults_DecodeErrorSurfacesTarget(t *testing.T) {
	t.Parallel()

	decode := dto.Results["profile"]
	if decode == nil {
		t.Fatal("profile decoder not registered")
	}

	_, err := decode(dto.JSONCodec{}, []byte("not json"))
	if err == nil {
		t.Fatal("expected decode error")
	}

	var derr *dto.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if derr.Target != "profile" {
		t.Errorf("expected target 'profile', got %q", derr.Target)
	}
}
