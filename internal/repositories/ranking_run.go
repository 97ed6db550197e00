package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/candidate-ranker/internal/models"
)

var ErrRunNotFound = errors.New("ranking run not found")

type RankingRunRepository interface {
	Create(run *models.RankingRun) error
	FindByID(id uuid.UUID) (*models.RankingRun, error)
	UpdateStatus(id uuid.UUID, status models.RunStatus) error
	UpdateResult(id uuid.UUID, results []models.RankedCandidate, failedCount int) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingRuns(limit int) ([]models.RankingRun, error)
}

type rankingRunRepository struct {
	db *gorm.DB
}

func NewRankingRunRepository(db *gorm.DB) RankingRunRepository {
	return &rankingRunRepository{db: db}
}

func (r *rankingRunRepository) Create(run *models.RankingRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ranking run: %w", err)
	}
	return nil
}

func (r *rankingRunRepository) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	var run models.RankingRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find ranking run: %w", err)
	}
	return &run, nil
}

func (r *rankingRunRepository) UpdateStatus(id uuid.UUID, status models.RunStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// UpdateResult stores the ranked list and marks the run completed.
func (r *rankingRunRepository) UpdateResult(id uuid.UUID, results []models.RankedCandidate, failedCount int) error {
	// map updates skip the struct serializer, so go through the model
	return r.updateModel(id, &models.RankingRun{
		Status:         models.StatusCompleted,
		Results:        results,
		CandidateCount: len(results),
		FailedCount:    failedCount,
		UpdatedAt:      time.Now(),
	}, "status", "results", "candidate_count", "failed_count", "updated_at")
}

func (r *rankingRunRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *rankingRunRepository) FindPendingRuns(limit int) ([]models.RankingRun, error) {
	var runs []models.RankingRun
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}
	return runs, nil
}

func (r *rankingRunRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.RankingRun{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update ranking run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *rankingRunRepository) updateModel(id uuid.UUID, values *models.RankingRun, columns ...string) error {
	result := r.db.Model(&models.RankingRun{}).Where("id = ?", id).Select(columns).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update ranking run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}
