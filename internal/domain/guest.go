package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	GuestCodePrefix      = "ORD-"
	guestMetadataVersion = 1
)

// GuestMetadata carries the guest fields that have no column of their own.
type GuestMetadata struct {
	GuestName    string `json:"guest_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	TableNumber  *int   `json:"table_number,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type guestEnvelope struct {
	Version int `json:"v"`
	GuestMetadata
}

func EncodeGuestMetadata(m GuestMetadata) (string, error) {
	data, err := json.Marshal(guestEnvelope{Version: guestMetadataVersion, GuestMetadata: m})
	if err != nil {
		return "", fmt.Errorf("marshal guest metadata: %w", err)
	}
	return string(data), nil
}

// DecodeGuestMetadata never fails: anything that is not a known envelope
// is returned as a plain note.
func DecodeGuestMetadata(blob string) GuestMetadata {
	if strings.TrimSpace(blob) == "" {
		return GuestMetadata{}
	}

	var env guestEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil || env.Version != guestMetadataVersion {
		return GuestMetadata{Notes: blob}
	}
	return env.GuestMetadata
}

func FormatGuestOrderCode(orderID int64) string {
	return fmt.Sprintf("%s%06d", GuestCodePrefix, orderID)
}

func ParseGuestOrderCode(code string) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	digits, ok := strings.CutPrefix(code, GuestCodePrefix)
	if !ok || digits == "" {
		return 0, NewValidationError("code", "must look like %s000042", GuestCodePrefix)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, NewValidationError("code", "must look like %s000042", GuestCodePrefix)
		}
	}

	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, NewValidationError("code", "order number out of range")
	}
	return id, nil
}
