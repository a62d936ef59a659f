package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/markyai/studio-backend/internal/database"
	"github.com/markyai/studio-backend/internal/models"
)

// ProfileStore persists onboarding profiles per user. Replaces the
// original app's ambient localStorage flags with an explicit store.
type ProfileStore struct{}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// Get returns the stored profile, or nil when the user has none yet.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var p models.UserProfile
	var useCases, platforms, imageTypes, brandStyle, brandColors, goals []byte

	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT COALESCE(role, ''), COALESCE(industry, ''), COALESCE(niche, ''),
		       use_cases, platforms, image_types, brand_style, brand_colors, goals,
		       COALESCE(frequency, ''), skipped
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.Role, &p.Industry, &p.Niche,
		&useCases, &platforms, &imageTypes, &brandStyle, &brandColors, &goals,
		&p.Frequency, &p.Skipped)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, field := range []struct {
		raw  []byte
		dest *[]string
	}{
		{useCases, &p.UseCases},
		{platforms, &p.Platforms},
		{imageTypes, &p.ImageTypes},
		{brandStyle, &p.BrandStyle},
		{brandColors, &p.BrandColors},
		{goals, &p.Goals},
	} {
		if len(field.raw) > 0 {
			if err := json.Unmarshal(field.raw, field.dest); err != nil {
				return nil, err
			}
		}
	}

	return &p, nil
}

// Save upserts the user's profile.
func (s *ProfileStore) Save(ctx context.Context, userID string, p *models.UserProfile) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	useCases, _ := json.Marshal(emptyIfNil(p.UseCases))
	platforms, _ := json.Marshal(emptyIfNil(p.Platforms))
	imageTypes, _ := json.Marshal(emptyIfNil(p.ImageTypes))
	brandStyle, _ := json.Marshal(emptyIfNil(p.BrandStyle))
	brandColors, _ := json.Marshal(emptyIfNil(p.BrandColors))
	goals, _ := json.Marshal(emptyIfNil(p.Goals))

	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, role, industry, niche, use_cases, platforms, image_types, brand_style, brand_colors, goals, frequency, skipped, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			role = EXCLUDED.role,
			industry = EXCLUDED.industry,
			niche = EXCLUDED.niche,
			use_cases = EXCLUDED.use_cases,
			platforms = EXCLUDED.platforms,
			image_types = EXCLUDED.image_types,
			brand_style = EXCLUDED.brand_style,
			brand_colors = EXCLUDED.brand_colors,
			goals = EXCLUDED.goals,
			frequency = EXCLUDED.frequency,
			skipped = EXCLUDED.skipped,
			updated_at = EXCLUDED.updated_at
	`, userID, p.Role, p.Industry, p.Niche, useCases, platforms, imageTypes, brandStyle, brandColors, goals, p.Frequency, p.Skipped, time.Now())
	return err
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
