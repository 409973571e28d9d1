package activity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	d, err := Decode(`{
		"app_id": "1234567890",
		"details": "In a match",
		"state": "Ranked",
		"largeImageKey": "cover",
		"largeImageText": "Cover art",
		"timestamp": 1700000000,
		"activity_kind": 3
	}`)
	require.NoError(t, err)

	assert.Equal(t, Descriptor{
		AppID:          1234567890,
		Details:        "In a match",
		State:          "Ranked",
		LargeImageKey:  "cover",
		LargeImageText: "Cover art",
		StartTimestamp: 1700000000,
		Kind:           KindWatching,
	}, d)
	assert.True(t, d.HasAssets())
}

func TestDecode_OptionalFieldsDefault(t *testing.T) {
	d, err := Decode(`{"app_id":"123","details":"D"}`)
	require.NoError(t, err)

	assert.Equal(t, uint64(123), d.AppID)
	assert.Equal(t, "D", d.Details)
	assert.Empty(t, d.State)
	assert.Zero(t, d.StartTimestamp)
	assert.Equal(t, KindPlaying, d.Kind)
	assert.False(t, d.HasAssets())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{name: "malformed json", raw: `{"app_id":`, field: ""},
		{name: "not an object", raw: `[1,2,3]`, field: ""},
		{name: "empty input", raw: ``, field: ""},
		{name: "missing app id", raw: `{"details":"x"}`, field: "app_id"},
		{name: "non numeric app id", raw: `{"app_id":"abc"}`, field: "app_id"},
		{name: "negative app id", raw: `{"app_id":"-5"}`, field: "app_id"},
		{name: "empty app id", raw: `{"app_id":""}`, field: "app_id"},
		{name: "padded app id", raw: `{"app_id":" 123 "}`, field: "app_id"},
		{name: "trailing newline app id", raw: `{"app_id":"123\n"}`, field: "app_id"},
		{name: "numeric app id is wrong type", raw: `{"app_id":123}`, field: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr), "expected *DecodeError, got %T", err)
			assert.Equal(t, tt.field, decErr.Field)
		})
	}
}

func TestKindFromInt(t *testing.T) {
	tests := []struct {
		in   int
		want Kind
	}{
		{0, KindPlaying},
		{2, KindListening},
		{3, KindWatching},
		{5, KindCompeting},
		{1, KindPlaying},
		{4, KindPlaying},
		{99, KindPlaying},
		{-1, KindPlaying},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromInt(tt.in))
		})
	}
}

func TestDecode_ActivityKind(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{`{"app_id":"1","activity_kind":0}`, KindPlaying},
		{`{"app_id":"1","activity_kind":2}`, KindListening},
		{`{"app_id":"1","activity_kind":3}`, KindWatching},
		{`{"app_id":"1","activity_kind":5}`, KindCompeting},
		{`{"app_id":"1","activity_kind":1}`, KindPlaying},
		{`{"app_id":"1","activity_kind":4}`, KindPlaying},
		{`{"app_id":"1","activity_kind":99}`, KindPlaying},
		{`{"app_id":"1"}`, KindPlaying},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Kind)
		})
	}
}
