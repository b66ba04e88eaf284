package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platefull/weekplan/internal/calendar"
	"github.com/platefull/weekplan/internal/orderstore/domain"
	pkgdb "github.com/platefull/weekplan/pkg/db"
)

// listPageSize bounds each page of the week listing. Rosters rarely
// exceed a few thousand orders per week, paging keeps memory flat
// either way.
const listPageSize = 1000

type store struct {
	db     *gorm.DB
	node   *snowflake.Node
	logger *zap.Logger
}

func NewStore(db *gorm.DB, node *snowflake.Node, logger *zap.Logger) domain.Store {
	return &store{db: db, node: node, logger: logger.Named("orderstore")}
}

func (s *store) ListWeek(ctx context.Context, weekStart time.Time) ([]domain.Order, error) {
	ws := calendar.WeekStart(weekStart)
	we := calendar.WeekEnd(ws)

	var all []domain.Order
	for offset := 0; ; offset += listPageSize {
		var page []domain.Order
		err := s.db.WithContext(ctx).
			Preload("Items").
			Where("(delivery_date >= ? AND delivery_date <= ?) OR delivery_date IS NULL", ws, we).
			Order("id").
			Limit(listPageSize).
			Offset(offset).
			Find(&page).Error
		if err != nil {
			return nil, fmt.Errorf("list week orders: %w", err)
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
	}
}

// CreateMissing inserts each order in its own transaction so one
// conflicting row cannot abort the whole backfill.
func (s *store) CreateMissing(ctx context.Context, orders []domain.Order) (domain.CreateOutcome, error) {
	var outcome domain.CreateOutcome
	for i := range orders {
		o := orders[i]
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.DisplayNumber == 0 {
			o.DisplayNumber = s.node.Generate().Int64()
		}
		for j := range o.Items {
			if o.Items[j].ID == "" {
				o.Items[j].ID = uuid.NewString()
			}
			o.Items[j].OrderID = o.ID
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&o).Error
		})
		if pkgdb.IsDuplicateKeyErr(err) {
			s.logger.Debug("order already present, skipping",
				zap.String("client_id", o.ClientID),
				zap.String("meal_type", o.Category),
			)
			continue
		}
		if err != nil {
			s.logger.Warn("order insert failed",
				zap.String("client_id", o.ClientID),
				zap.String("meal_type", o.Category),
				zap.Error(err),
			)
			outcome.Failed = append(outcome.Failed, o.ClientID)
			continue
		}
		outcome.Created++
	}
	return outcome, nil
}
