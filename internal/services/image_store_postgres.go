package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/markyai/studio-backend/internal/database"
	"github.com/markyai/studio-backend/internal/models"
)

// PostgresImageStore keeps generated-image records in the generated_images table.
type PostgresImageStore struct{}

func NewPostgresImageStore() *PostgresImageStore {
	return &PostgresImageStore{}
}

func (s *PostgresImageStore) Save(ctx context.Context, image *models.GeneratedImage) (string, error) {
	if image.UserID == "" {
		return "", ErrUnauthenticated
	}

	id := image.ID
	if id == "" {
		id = uuid.New().String()
	}
	if image.Timestamp.IsZero() {
		image.Timestamp = time.Now().UTC()
	}

	settings, err := json.Marshal(image.Settings)
	if err != nil {
		return "", err
	}

	_, err = database.PostgresDB.ExecContext(ctx, `
		INSERT INTO generated_images (id, user_id, session_id, prompt, image_url, text_content, timestamp, settings)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)
	`, id, image.UserID, image.SessionID, image.Prompt, image.ImageURL, image.TextContent, image.Timestamp, settings)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (s *PostgresImageStore) List(ctx context.Context, userID string) ([]models.GeneratedImage, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(session_id, ''), prompt, image_url, COALESCE(text_content, ''), timestamp, settings
		FROM generated_images
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]models.GeneratedImage, 0)
	for rows.Next() {
		var img models.GeneratedImage
		var settings []byte
		if err := rows.Scan(&img.ID, &img.UserID, &img.SessionID, &img.Prompt, &img.ImageURL, &img.TextContent, &img.Timestamp, &settings); err != nil {
			return nil, err
		}
		if len(settings) > 0 {
			if err := json.Unmarshal(settings, &img.Settings); err != nil {
				return nil, err
			}
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

func (s *PostgresImageStore) Delete(ctx context.Context, userID, imageID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	result, err := database.PostgresDB.ExecContext(ctx, `
		DELETE FROM generated_images WHERE id = $1 AND user_id = $2
	`, imageID, userID)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrImageNotFound
	}
	return nil
}
