package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestMetadata_RoundTrip(t *testing.T) {
	table := 12
	in := GuestMetadata{
		GuestName:    "Dana",
		ContactPhone: "+1-555-0100",
		ContactEmail: "dana@example.com",
		TableNumber:  &table,
		Notes:        "no onions on anything",
	}

	blob, err := EncodeGuestMetadata(in)
	require.NoError(t, err)
	assert.Contains(t, blob, `"v":1`)

	out := DecodeGuestMetadata(blob)
	assert.Equal(t, in, out)
}

func TestDecodeGuestMetadata_Degrades(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want GuestMetadata
	}{
		{"empty", "", GuestMetadata{}},
		{"whitespace", "   ", GuestMetadata{}},
		{"plain text", "leave at the door", GuestMetadata{Notes: "leave at the door"}},
		{"truncated json", `{"v":1,"guest_name":"Da`, GuestMetadata{Notes: `{"v":1,"guest_name":"Da`}},
		{"unknown version", `{"v":7,"guest_name":"Dana"}`, GuestMetadata{Notes: `{"v":7,"guest_name":"Dana"}`}},
		{"json array", `["a","b"]`, GuestMetadata{Notes: `["a","b"]`}},
		{"wrong field type", `{"v":1,"table_number":"twelve"}`, GuestMetadata{Notes: `{"v":1,"table_number":"twelve"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeGuestMetadata(tt.blob))
		})
	}
}

func TestGuestOrderCode(t *testing.T) {
	assert.Equal(t, "ORD-000042", FormatGuestOrderCode(42))
	assert.Equal(t, "ORD-1234567", FormatGuestOrderCode(1234567))

	id, err := ParseGuestOrderCode("ORD-000042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ParseGuestOrderCode(" ord-7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestParseGuestOrderCode_Malformed(t *testing.T) {
	for _, code := range []string{"", "ORD-", "000042", "TRK-000042", "ORD-12a4", "ORD--12", "ORD-99999999999999999999"} {
		t.Run(code, func(t *testing.T) {
			_, err := ParseGuestOrderCode(code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}
