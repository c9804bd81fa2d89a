// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package catalog

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	offsets := []int{0, 1, 20, 199, 100000}
	for _, offset := range offsets {
		token := EncodeCursor(Cursor{Offset: offset, LastID: "ch_042"})
		got, err := DecodeCursor(token)
		if err != nil {
			t.Fatalf("DecodeCursor(EncodeCursor(offset=%d)) error: %v", offset, err)
		}
		if got.Offset != offset {
			t.Errorf("round-trip offset = %d, want %d", got.Offset, offset)
		}
		if got.LastID != "ch_042" {
			t.Errorf("round-trip last_id = %q, want %q", got.LastID, "ch_042")
		}
	}
}

func TestDecodeCursorRejectsBadTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"not base64", "not-a-valid-cursor!!"},
		{"base64 of non-json", base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{"json without offset", base64.RawURLEncoding.EncodeToString([]byte(`{"last_id":"x"}`))},
		{"negative offset", base64.RawURLEncoding.EncodeToString([]byte(`{"offset":-1}`))},
		{"offset wrong type", base64.RawURLEncoding.EncodeToString([]byte(`{"offset":"ten"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeCursor(tt.token); !errors.Is(err, ErrInvalidCursor) {
				t.Errorf("DecodeCursor(%q) error = %v, want ErrInvalidCursor", tt.token, err)
			}
		})
	}
}

func TestDecodeCursorAcceptsPaddedEncoding(t *testing.T) {
	t.Parallel()

	token := base64.URLEncoding.EncodeToString([]byte(`{"offset":40}`))
	got, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("DecodeCursor(padded) error: %v", err)
	}
	if got.Offset != 40 {
		t.Errorf("offset = %d, want 40", got.Offset)
	}
}
