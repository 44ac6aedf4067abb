package services

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/storyforge/sharing-service/internal/models"
	"gorm.io/gorm"
)

// AnalyticsService merges view and share events into a ShareLink's
// counters. Every increment is a single server-side statement so
// concurrent requests never lose updates.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ViewDims carries the optional dimensions of a view event.
type ViewDims struct {
	Device   string
	Country  string
	Referrer string
}

var knownPlatforms = map[string]bool{
	"twitter":   true,
	"facebook":  true,
	"instagram": true,
	"whatsapp":  true,
	"telegram":  true,
	"linkedin":  true,
	"reddit":    true,
	"email":     true,
	"copy_link": true,
}

// NormalizePlatform maps free-form platform values onto the closed set,
// with an "other" bucket for anything unrecognized.
func NormalizePlatform(platform string) string {
	p := strings.ToLower(strings.TrimSpace(platform))
	if knownPlatforms[p] {
		return p
	}
	return "other"
}

// NormalizeReferrer reduces a referrer URL to its lowercased host so the
// referrer map stays bounded. Values that do not parse are kept as-is.
func NormalizeReferrer(referrer string) string {
	r := strings.TrimSpace(referrer)
	if r == "" {
		return ""
	}
	if u, err := url.Parse(r); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.ToLower(r)
}

// RecordView bumps viewCount and the access timestamps in one statement,
// then bumps each present dimension independently. A missing or failing
// dimension never blocks the base count.
func (s *AnalyticsService) RecordView(shareURL string, dims ViewDims) error {
	result := s.db.Model(&models.ShareLink{}).
		Where("share_url = ?", shareURL).
		Updates(map[string]interface{}{
			"view_count":      gorm.Expr("view_count + 1"),
			"first_access_at": gorm.Expr("COALESCE(first_access_at, NOW())"),
			"last_access_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}

	if dims.Device != "" {
		s.bumpDimension(shareURL, "views_by_device", strings.ToLower(dims.Device))
	}
	if dims.Country != "" {
		s.bumpDimension(shareURL, "views_by_country", strings.ToUpper(dims.Country))
	}
	if ref := NormalizeReferrer(dims.Referrer); ref != "" {
		s.bumpDimension(shareURL, "referrers", ref)
	}
	return nil
}

// RecordShare bumps shareCount and the per-platform bucket.
func (s *AnalyticsService) RecordShare(shareURL, platform string) error {
	result := s.db.Model(&models.ShareLink{}).
		Where("share_url = ?", shareURL).
		Update("share_count", gorm.Expr("share_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to record share: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}

	s.bumpDimension(shareURL, "shares_by_platform", NormalizePlatform(platform))
	return nil
}

// bumpDimension increments one key of a JSONB counter map in a single
// statement. The column name is an internal constant, never user input.
func (s *AnalyticsService) bumpDimension(shareURL, column, key string) {
	stmt := fmt.Sprintf(
		`UPDATE share_links
		 SET %s = jsonb_set(COALESCE(%s, '{}'::jsonb), ARRAY[?::text], to_jsonb(COALESCE((%s->>?)::int, 0) + 1))
		 WHERE share_url = ?`,
		column, column, column,
	)
	if err := s.db.Exec(stmt, key, key, shareURL).Error; err != nil {
		slog.Warn("dimension increment failed",
			"share_url", shareURL, "dimension", column, "key", key, "error", err)
	}
}
