package repositories

import (
	"github.com/yewo0on/HobbyFind/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	SaveBookmark(bookmark *models.Bookmark) error
	RemoveBookmark(userID uint, hobbyID string) error
	ListHobbyIDs(userID uint) ([]string, error)
	IsBookmarked(userID uint, hobbyID string) (bool, error)
}

// PostgresBookmarkRepository implements BookmarkRepository for PostgreSQL
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository
func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// SaveBookmark upserts a bookmark row. The (user_id, hobby_id) unique index
// is the conflict target, so saving the same pair twice is a no-op rather
// than an error or a duplicate row.
func (r *PostgresBookmarkRepository) SaveBookmark(bookmark *models.Bookmark) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "hobby_id"}},
		DoNothing: true,
	}).Create(bookmark).Error
}

// RemoveBookmark deletes the row matching (userID, hobbyID). Matching zero
// rows is success; the caller cannot tell a removal from a no-op.
func (r *PostgresBookmarkRepository) RemoveBookmark(userID uint, hobbyID string) error {
	return r.db.Where("user_id = ? AND hobby_id = ?", userID, hobbyID).Delete(&models.Bookmark{}).Error
}

// ListHobbyIDs returns the hobby ids bookmarked by the user, oldest first
func (r *PostgresBookmarkRepository) ListHobbyIDs(userID uint) ([]string, error) {
	var hobbyIDs []string
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("hobby_id", &hobbyIDs).Error
	if err != nil {
		return nil, err
	}
	return hobbyIDs, nil
}

// IsBookmarked checks whether the user has bookmarked the given hobby
func (r *PostgresBookmarkRepository) IsBookmarked(userID uint, hobbyID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND hobby_id = ?", userID, hobbyID).Count(&count).Error
	return count > 0, err
}
