// Package spots owns the persisted representation of a spot (a map pin with
// metadata, images, comments and a star rating) and the HTTP surface over it.
package spots

import (
	"encoding/json"

	"github.com/canbyr/spottalk/internal/geo"
)

// Spot struct - defines the properties of a spot.
type Spot struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Comments    []string `json:"comments"`
	Stars       int      `json:"stars"`
}

// Coordinate returns the spot's map position.
func (s Spot) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: s.Lat, Lng: s.Lng}
}

// Spots struct - slice used for bundling multiple spots.
type Spots struct {
	Spots []Spot `json:"spots"`
	Total int    `json:"total"`
}

// CreateSpotInput is the payload for creating a spot. Images carries
// base64-encoded payloads, not URLs; the store uploads them and persists the
// resulting URLs.
type CreateSpotInput struct {
	Username    string   `json:"username"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stars       int      `json:"stars"`
	Comments    []string `json:"comments"`
}

// decodeStoredImages maps the three legacy on-disk shapes of the image_url
// column onto one canonical slice: a JSON array passes through, a bare JSON
// string becomes a one-element slice, and null (or anything unreadable)
// becomes an empty slice. Never returns nil.
func decodeStoredImages(raw []byte) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err == nil {
		return urls
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}

	return []string{}
}

// decodeStoredComments normalizes the comments column. Besides the array and
// null shapes, some legacy rows hold a double-encoded value: a JSON string
// whose contents are themselves an encoded array.
func decodeStoredComments(raw []byte) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}

	var comments []string
	if err := json.Unmarshal(raw, &comments); err == nil {
		return comments
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		var inner []string
		if err := json.Unmarshal([]byte(encoded), &inner); err == nil && inner != nil {
			return inner
		}
	}

	return []string{}
}
