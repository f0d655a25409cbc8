package services

import (
	"context"
	"errors"
	"fmt"

	"zonewatch/internal/models"
	"zonewatch/internal/zones"

	"github.com/uptrace/bun"
)

var ErrZoneNotFound = errors.New("no zone contains the location")

// ZoneService serves the static zone configuration from the store.
type ZoneService struct {
	db *bun.DB
}

func NewZoneService(db *bun.DB) *ZoneService {
	return &ZoneService{db: db}
}

// Seed replaces the stored zones with list in one transaction, so the store
// always holds the configuration loaded at this start.
func (s *ZoneService) Seed(ctx context.Context, list []models.Zone) (int, error) {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Zone)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("clear zones: %w", err)
		}
		if len(list) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&list).Exec(ctx); err != nil {
			return fmt.Errorf("insert zones: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// List returns the zones in configuration order.
func (s *ZoneService) List(ctx context.Context) ([]models.Zone, error) {
	list := []models.Zone{}
	err := s.db.NewSelect().
		Model(&list).
		OrderExpr("position ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return list, nil
}

// Classify returns the first zone containing the coordinate.
func (s *ZoneService) Classify(ctx context.Context, lat, lng float64) (*models.Zone, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	z, ok := zones.Locate(list, lat, lng)
	if !ok {
		return nil, ErrZoneNotFound
	}
	return &z, nil
}
