package repositories

import (
	"errors"

	"github.com/arnav127/sports-ladder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSportNotFound = errors.New("sport not found")

type SportRepository struct {
	DB *gorm.DB
}

func (r *SportRepository) CreateSport(sport *models.Sport) error {
	if sport.ID == "" {
		sport.ID = uuid.NewString()
	}
	return r.DB.Create(sport).Error
}

func (r *SportRepository) GetSport(id string) (*models.Sport, error) {
	var sport models.Sport
	err := r.DB.First(&sport, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSportNotFound
	}
	return &sport, err
}

func (r *SportRepository) ListSports() ([]models.Sport, error) {
	var sports []models.Sport
	err := r.DB.Order("name").Find(&sports).Error
	return sports, err
}

// EnsureSports seeds the given sport names if the table is empty. Sports are
// reference data; nothing creates them through the API.
func (r *SportRepository) EnsureSports(names []string) error {
	var count int64
	if err := r.DB.Model(&models.Sport{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range names {
		if err := r.CreateSport(&models.Sport{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
