package spots

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canbyr/spottalk/internal/geo"
)

func TestDecodeStoredImages(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected []string
	}{
		{"json array", `["u1","u2"]`, []string{"u1", "u2"}},
		{"empty json array", `[]`, []string{}},
		{"bare string", `"u"`, []string{"u"}},
		{"empty bare string", `""`, []string{}},
		{"null", `null`, []string{}},
		{"absent column", ``, []string{}},
		{"array of non-strings", `[1,2]`, []string{}},
		{"object", `{"url":"u"}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []byte
			if tt.stored != "" {
				raw = []byte(tt.stored)
			}

			got := decodeStoredImages(raw)

			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeStoredComments(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected []string
	}{
		{"json array", `["first","second"]`, []string{"first", "second"}},
		{"empty json array", `[]`, []string{}},
		{"null", `null`, []string{}},
		{"absent column", ``, []string{}},
		// Some legacy rows hold a JSON string whose contents are themselves
		// an encoded array.
		{"double encoded array", `"[\"first\",\"second\"]"`, []string{"first", "second"}},
		{"plain string that is not an array", `"hello"`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []byte
			if tt.stored != "" {
				raw = []byte(tt.stored)
			}

			got := decodeStoredComments(raw)

			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSpotJSONNeverEmitsNullSequences(t *testing.T) {
	spot := Spot{
		ID:       1,
		Username: "Anonymous",
		Images:   decodeStoredImages(nil),
		Comments: decodeStoredComments(nil),
	}

	data, err := json.Marshal(spot)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"images":[]`)
	assert.Contains(t, string(data), `"comments":[]`)
}

func TestSpotCoordinate(t *testing.T) {
	spot := Spot{Lat: 37.7749, Lng: -122.4194}

	assert.Equal(t, geo.Coordinate{Lat: 37.7749, Lng: -122.4194}, spot.Coordinate())
}

func TestDecodeImagePayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
		wantErr  bool
	}{
		{"plain base64", "aGVsbG8=", "hello", false},
		{"data url prefix", "data:image/png;base64,aGVsbG8=", "hello", false},
		{"not base64", "!!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImagePayload(tt.payload)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}
