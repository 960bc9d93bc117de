package kpi

import (
	"context"

	"gorm.io/gorm"

	"github.com/oneview/server/internal/utils/pagination"
)

// HistoryFilter narrows a snapshot history query.
type HistoryFilter struct {
	Source     string
	MetricName string
}

// Repository defines the interface for KPI snapshot storage.
type Repository interface {
	SaveSnapshot(ctx context.Context, metrics []*KpiData, campaigns []*CampaignPerformance) error
	ListHistory(ctx context.Context, filter HistoryFilter, p *pagination.Pagination) ([]*KpiData, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new KPI repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveSnapshot(ctx context.Context, metrics []*KpiData, campaigns []*CampaignPerformance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(metrics) > 0 {
			if err := tx.Create(&metrics).Error; err != nil {
				return err
			}
		}
		if len(campaigns) > 0 {
			if err := tx.Create(&campaigns).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) ListHistory(ctx context.Context, filter HistoryFilter, p *pagination.Pagination) ([]*KpiData, int64, error) {
	query := r.db.WithContext(ctx).Model(&KpiData{})
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.MetricName != "" {
		query = query.Where("metric_name = ?", filter.MetricName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*KpiData
	err := query.
		Order("timestamp DESC").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.Size()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
