package spots

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/canbyr/spottalk/internal/storage"
)

// Querier is the subset of pgxpool.Pool the store needs. Injected rather
// than held as a package-level connection so the store stays testable.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Uploader persists an opaque blob under a key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// EventPublisher emits a domain event. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// Store provides durable storage and retrieval of spots, normalizing the
// legacy JSONB column shapes on every read.
type Store struct {
	db     Querier
	blobs  Uploader
	events EventPublisher
	log    zerolog.Logger
}

// NewStore wires a store from its collaborators. events may be nil.
func NewStore(db Querier, blobs Uploader, events EventPublisher, log zerolog.Logger) *Store {
	return &Store{db: db, blobs: blobs, events: events, log: log}
}

const spotColumns = `id, username, lat, lng, name, description, image_url, comments, stars`

// EnsureSchema creates the spots table if missing and migrates legacy text
// image_url columns to JSONB, wrapping bare string values in arrays.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS spots (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) DEFAULT 'Anonymous',
			lat FLOAT NOT NULL,
			lng FLOAT NOT NULL,
			image_url JSONB,
			comments JSONB DEFAULT '[]',
			stars INTEGER DEFAULT 0,
			name VARCHAR(255),
			description TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("spot: creating table: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		DO $$
		BEGIN
			IF EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'spots' AND column_name = 'image_url' AND data_type <> 'jsonb'
			) THEN
				UPDATE spots
				SET image_url = CASE
					WHEN image_url::TEXT LIKE '[%' THEN image_url::JSONB
					ELSE json_build_array(image_url)::JSONB
				END
				WHERE image_url IS NOT NULL;

				ALTER TABLE spots ALTER COLUMN image_url TYPE JSONB USING image_url::JSONB;
			END IF;
		END $$;
	`)
	if err != nil {
		return fmt.Errorf("spot: migrating image_url column: %w", err)
	}

	return nil
}

// List returns all spots with their stored JSONB fields normalized.
func (s *Store) List(ctx context.Context) ([]Spot, error) {
	rows, err := s.db.Query(ctx, `SELECT `+spotColumns+` FROM spots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("spot: listing: %w", err)
	}
	defer rows.Close()

	result := make([]Spot, 0)
	for rows.Next() {
		spot, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("spot: error scanning: %w", err)
		}
		result = append(result, spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spot: listing: %w", err)
	}

	return result, nil
}

// Get returns a single spot by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int) (Spot, error) {
	row := s.db.QueryRow(ctx, `SELECT `+spotColumns+` FROM spots WHERE id = $1`, id)

	spot, err := scanSpot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Spot{}, ErrNotFound
	}
	if err != nil {
		return Spot{}, fmt.Errorf("spot: fetching %d: %w", id, err)
	}

	return spot, nil
}

// Create uploads the supplied base64 image payloads, then inserts the spot
// row with the resulting URLs. Any upload failure aborts the whole create
// before the row is written; earlier uploads for the same request are left
// in place.
func (s *Store) Create(ctx context.Context, input CreateSpotInput) (Spot, error) {
	if input.Lat == nil || input.Lng == nil || strings.TrimSpace(input.Name) == "" {
		return Spot{}, invalidInput("Latitude, longitude, and name are required")
	}

	username := input.Username
	if username == "" {
		username = "Anonymous"
	}

	urls := make([]string, 0, len(input.Images))
	for _, payload := range input.Images {
		if payload == "" {
			continue
		}

		data, err := decodeImagePayload(payload)
		if err != nil {
			return Spot{}, invalidInput("Images must be base64 encoded")
		}

		key := storage.NewImageKey()
		url, err := s.blobs.Upload(ctx, key, data, "image/png")
		if err != nil {
			return Spot{}, &UploadError{Key: key, Err: err}
		}
		urls = append(urls, url)
	}

	comments := input.Comments
	if comments == nil {
		comments = []string{}
	}

	imagesJSON, err := json.Marshal(urls)
	if err != nil {
		return Spot{}, fmt.Errorf("spot: encoding image urls: %w", err)
	}
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return Spot{}, fmt.Errorf("spot: encoding comments: %w", err)
	}

	row := s.db.QueryRow(
		ctx,
		`INSERT INTO spots (username, lat, lng, name, description, image_url, stars, comments)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8::jsonb)
		 RETURNING `+spotColumns,
		username, *input.Lat, *input.Lng, input.Name, input.Description,
		string(imagesJSON), input.Stars, string(commentsJSON),
	)

	spot, err := scanSpot(row)
	if err != nil {
		return Spot{}, fmt.Errorf("spot: inserting: %w", err)
	}

	s.publish(ctx, "spot.created", spot)
	return spot, nil
}

// AppendComment appends one comment to the spot's comment sequence as a
// single store-side JSONB concatenation. Two concurrent appends to the same
// spot both survive; there is no read-modify-write in application code.
func (s *Store) AppendComment(ctx context.Context, id int, comment string) (Spot, error) {
	entry, err := json.Marshal([]string{comment})
	if err != nil {
		return Spot{}, fmt.Errorf("spot: encoding comment: %w", err)
	}

	row := s.db.QueryRow(
		ctx,
		`UPDATE spots SET comments = comments || $1::jsonb WHERE id = $2 RETURNING `+spotColumns,
		string(entry), id,
	)

	spot, err := scanSpot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Spot{}, ErrNotFound
	}
	if err != nil {
		return Spot{}, fmt.Errorf("spot: appending comment to %d: %w", id, err)
	}

	s.publish(ctx, "comment.added", spot)
	return spot, nil
}

// UpdateStars overwrites the spot's star rating. The rating is not clamped.
func (s *Store) UpdateStars(ctx context.Context, id, stars int) (Spot, error) {
	row := s.db.QueryRow(
		ctx,
		`UPDATE spots SET stars = $1 WHERE id = $2 RETURNING `+spotColumns,
		stars, id,
	)

	spot, err := scanSpot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Spot{}, ErrNotFound
	}
	if err != nil {
		return Spot{}, fmt.Errorf("spot: updating stars on %d: %w", id, err)
	}

	return spot, nil
}

func (s *Store) publish(ctx context.Context, eventType string, spot Spot) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, strconv.Itoa(spot.ID), spot); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Int("spot_id", spot.ID).
			Msg("publishing spot event")
	}
}

func scanSpot(row pgx.Row) (Spot, error) {
	var (
		spot        Spot
		username    pgtype.Text
		name        pgtype.Text
		description pgtype.Text
		rawImages   []byte
		rawComments []byte
	)

	if err := row.Scan(
		&spot.ID, &username, &spot.Lat, &spot.Lng, &name, &description,
		&rawImages, &rawComments, &spot.Stars,
	); err != nil {
		return Spot{}, err
	}

	spot.Username = username.String
	spot.Name = name.String
	spot.Description = description.String
	spot.Images = decodeStoredImages(rawImages)
	spot.Comments = decodeStoredComments(rawComments)

	return spot, nil
}

// decodeImagePayload decodes a base64 image payload, tolerating a data-URL
// prefix ("data:image/png;base64,...") in front of the encoded bytes.
func decodeImagePayload(payload string) ([]byte, error) {
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}
