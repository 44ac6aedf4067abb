package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/config"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"github.com/storyforge/sharing-service/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxTokenAttempts = 5

// ShareService owns ShareLink records: creation, access-gated fetches,
// owner mutations, moderation-driven hiding and TTL reaping.
type ShareService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewShareService(db *gorm.DB, cfg *config.Config) *ShareService {
	return &ShareService{db: db, cfg: cfg}
}

func (s *ShareService) Create(ownerID, scenarioID uuid.UUID, req *dto.CreateShareRequest) (*models.ShareLink, error) {
	if err := validateDisplay(req.Title, req.Description); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		return nil, validationErr("expires_at", "must be strictly in the future")
	}

	var scenario models.Scenario
	if err := s.db.Where("id = ? AND owner_id = ?", scenarioID, ownerID).First(&scenario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	var tags []string
	if len(scenario.Tags) > 0 {
		_ = json.Unmarshal(scenario.Tags, &tags)
	}
	snapshot, err := json.Marshal(models.ShareSnapshot{
		Topic:       scenario.Topic,
		Body:        scenario.Body,
		Tags:        tags,
		GeneratedAt: scenario.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		short := newToken(shortTokenLen)
		link := &models.ShareLink{
			ShareURL:     newToken(shareTokenLen),
			ShortURL:     &short,
			ScenarioID:   scenarioID,
			OwnerID:      ownerID,
			Snapshot:     snapshot,
			IsActive:     true,
			PasswordHash: passwordHash,
			ExpiresAt:    req.ExpiresAt,
			Title:        req.Title,
			Description:  req.Description,
		}

		err := s.db.Create(link).Error
		if err == nil {
			return link, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Token collision; re-roll.
			continue
		}
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}
	return nil, errors.New("failed to generate a unique share token")
}

// Fetch looks a link up by its share or short token without applying the
// access policy, so owners can still manage hidden or expired links.
func (s *ShareService) Fetch(token string) (*models.ShareLink, error) {
	var link models.ShareLink
	err := s.db.Where("share_url = ? OR short_url = ?", token, token).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch share link: %w", err)
	}
	return &link, nil
}

// FetchOwned is Fetch plus an ownership check. A mismatch reads as not
// found so existence never leaks to non-owners.
func (s *ShareService) FetchOwned(token string, ownerID uuid.UUID) (*models.ShareLink, error) {
	link, err := s.Fetch(token)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != ownerID {
		return nil, ErrShareNotFound
	}
	return link, nil
}

// FetchAccessible applies the access policy and the password gate. Expiry
// is checked on every call; a link past expiresAt is never served no matter
// what the reaper has gotten to.
func (s *ShareService) FetchAccessible(token, password string) (*models.ShareLink, error) {
	link, err := s.Fetch(token)
	if err != nil {
		return nil, err
	}
	if err := evaluateAccess(link, password, time.Now()); err != nil {
		return nil, err
	}
	return link, nil
}

// evaluateAccess runs the full access gate over an already-fetched link:
// policy decision first, then the password check for protected links.
func evaluateAccess(link *models.ShareLink, password string, now time.Time) error {
	switch policy.Evaluate(link, now) {
	case policy.Hidden:
		return ErrShareHidden
	case policy.Inactive:
		return ErrShareInactive
	case policy.Expired:
		return ErrShareExpired
	}

	if link.PasswordHash != nil {
		if password == "" {
			return ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password)) != nil {
			return ErrPasswordIncorrect
		}
	}
	return nil
}

// Update applies an owner's partial patch to display, password, expiry or
// active state.
func (s *ShareService) Update(token string, ownerID uuid.UUID, req *dto.UpdateShareRequest) (*models.ShareLink, error) {
	if err := validateDisplay(req.Title, req.Description); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		return nil, validationErr("expires_at", "must be strictly in the future")
	}

	link, err := s.FetchOwned(token, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		if *req.Password == "" {
			updates["password_hash"] = nil
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			updates["password_hash"] = string(hash)
		}
	}
	if len(updates) == 0 {
		return link, nil
	}

	if err := s.db.Model(link).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update share link: %w", err)
	}
	return link, nil
}

// Revoke deactivates a link. The row stays for history; recorded analytics
// survive revocation.
func (s *ShareService) Revoke(token string, ownerID uuid.UUID) error {
	result := s.db.Model(&models.ShareLink{}).
		Where("share_url = ? AND owner_id = ?", token, ownerID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke share link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}
	return nil
}

// SetHidden is the moderation hook, used both by the auto-hide path and by
// moderator overrides. Hiding is idempotent; unhiding clears the moderation
// fields.
func (s *ShareService) SetHidden(shareURL string, hidden bool, reason string) error {
	result := s.db.Model(&models.ShareLink{}).
		Where("share_url = ?", shareURL).
		Updates(hiddenUpdates(hidden, reason, time.Now()))
	if result.Error != nil {
		return fmt.Errorf("failed to set hidden state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}
	return nil
}

// hiddenUpdates builds the column set for a hide or unhide. Unhiding clears
// the moderation fields so a restored link carries no stale reason.
func hiddenUpdates(hidden bool, reason string, now time.Time) map[string]interface{} {
	if hidden {
		return map[string]interface{}{
			"is_hidden":     true,
			"hidden_at":     now,
			"hidden_reason": reason,
		}
	}
	return map[string]interface{}{
		"is_hidden":     false,
		"hidden_at":     nil,
		"hidden_reason": nil,
	}
}

func (s *ShareService) ListByOwner(ownerID uuid.UUID, page, limit int) ([]models.ShareLink, int64, error) {
	var links []models.ShareLink
	var total int64

	offset := (page - 1) * limit

	query := s.db.Model(&models.ShareLink{}).Where("owner_id = ?", ownerID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&links).Error

	return links, total, err
}

// StartReaper deletes links past their expiry on a fixed interval. Expiry
// is also enforced lazily on every accessible read, so reaper latency never
// extends a link's life.
func (s *ShareService) StartReaper(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.cfg.ShareReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				result := s.db.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
					Delete(&models.ShareLink{})
				if result.Error != nil {
					slog.Error("share reap failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("expired share links reaped", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}

func validateDisplay(title, description *string) error {
	if title != nil && len(*title) > 100 {
		return validationErr("title", "must be at most 100 characters")
	}
	if description != nil && len(*description) > 300 {
		return validationErr("description", "must be at most 300 characters")
	}
	return nil
}
