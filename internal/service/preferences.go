package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/repository"
)

var (
	errEmptyPrefKey   = errors.New("preference key is empty")
	errEmptyPrefValue = errors.New("preference value is empty")
)

// maxPrefValueBytes bounds a single stored blob; preferences are small UI
// state like fold maps and panel widths.
const maxPrefValueBytes = 1 << 16 // 64 KB

// PreferenceService stores opaque per-user preference blobs. Values are
// written as-is and never interpreted; concurrent writers race benignly,
// last writer wins.
type PreferenceService struct {
	prefs repository.PrefRepo
}

func NewPreferenceService(prefs repository.PrefRepo) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

func (s *PreferenceService) Get(ctx context.Context, userID int, key string) (*models.Preference, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errEmptyPrefKey
	}
	return s.prefs.Get(ctx, userID, key)
}

func (s *PreferenceService) Set(ctx context.Context, userID int, key string, value json.RawMessage) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errEmptyPrefKey
	}
	if len(value) == 0 {
		return errEmptyPrefValue
	}
	if len(value) > maxPrefValueBytes {
		return errors.New("preference value too large")
	}
	if !json.Valid(value) {
		return errors.New("preference value is not valid JSON")
	}
	return s.prefs.Set(ctx, models.Preference{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
}
