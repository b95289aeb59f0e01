// Package store persists processed movements in SQLite.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

var ErrNotFound = errors.New("movement not found")

// createBatchSize keeps multi-row inserts under SQLite's variable limit.
const createBatchSize = 200

type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Movement{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save inserts movements for a household. Rows whose (bank, reference) pair
// already exists are skipped; rows without a reference always insert. It
// returns the number of rows inserted.
func (s *Store) Save(ctx context.Context, householdID, bank string, movements []models.ProcessedMovement) (int, error) {
	if len(movements) == 0 {
		return 0, nil
	}
	rows := make([]Movement, len(movements))
	for i, pm := range movements {
		rows[i] = fromProcessed(uuid.NewString(), householdID, bank, i, pm)
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bank"}, {Name: "bank_reference"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, createBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to save movements: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Movements returns a household's movements by date.
func (s *Store) Movements(ctx context.Context, householdID string) ([]Movement, error) {
	var out []Movement
	err := s.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("date, created_at, position").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return out, nil
}

// Get returns one movement by id.
func (s *Store) Get(ctx context.Context, id string) (Movement, error) {
	var m Movement
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Movement{}, ErrNotFound
	}
	if err != nil {
		return Movement{}, fmt.Errorf("failed to load movement: %w", err)
	}
	return m, nil
}

// Households returns every household id with stored movements.
func (s *Store) Households(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Movement{}).
		Distinct().Order("household_id").
		Pluck("household_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	return ids, nil
}

func (s *Store) UnlinkedOwnAccount(ctx context.Context, householdID string) ([]models.StoredMovement, error) {
	var rows []Movement
	err := s.db.WithContext(ctx).
		Where("household_id = ? AND transfer_type = ? AND linked_movement_id IS NULL",
			householdID, string(models.TransferOwnAccount)).
		Order("date, created_at, position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list own-account movements: %w", err)
	}
	out := make([]models.StoredMovement, len(rows))
	for i, r := range rows {
		out[i] = r.Stored()
	}
	return out, nil
}

func (s *Store) MarkLinked(ctx context.Context, a, b, categoryID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pair := range [][2]string{{a, b}, {b, a}} {
			res := tx.Model(&Movement{}).Where("id = ?", pair[0]).Updates(map[string]any{
				"linked_movement_id":     pair[1],
				"exclude_from_analytics": true,
				"category_id":            categoryID,
			})
			if res.Error != nil {
				return fmt.Errorf("failed to link movement: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, pair[0])
			}
		}
		return nil
	})
}

func (s *Store) MarkAwaiting(ctx context.Context, id, categoryID string) error {
	res := s.db.WithContext(ctx).Model(&Movement{}).Where("id = ?", id).Updates(map[string]any{
		"exclude_from_analytics": true,
		"category_id":            categoryID,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update movement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
