package repositories

import (
	"github.com/tripverse/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	GetByUserIDs(userIDs []uint) ([]models.Profile, error)
	GetByDisplayName(name string) (*models.Profile, error)
	Save(profile *models.Profile) error
	Search(query string) ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetByUserID retrieves the profile belonging to a user
func (r *PostgresProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDs retrieves profiles for a set of users in one query
func (r *PostgresProfileRepository) GetByUserIDs(userIDs []uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	if err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByDisplayName retrieves the first profile with the given display name.
// Display names are not unique; callers that resolve @mentions get the first
// match and live with the ambiguity.
func (r *PostgresProfileRepository) GetByDisplayName(name string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("display_name = ?", name).Order("id").First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save creates the profile if absent or updates it in place
func (r *PostgresProfileRepository) Save(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Search finds profiles by display name or account email (case-insensitive
// substring). Users without a profile yet are not returned.
func (r *PostgresProfileRepository) Search(query string) ([]models.Profile, error) {
	var profiles []models.Profile
	pattern := "%" + query + "%"
	err := r.db.
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("LOWER(profiles.display_name) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?)", pattern, pattern).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
