package repository

import (
	"context"

	"estate/internal/domain/entity"
)

// DashboardRepository defines the persistence operations for the per-type
// dashboard records.
type DashboardRepository interface {
	// GetOrCreate returns the single dashboard document for the given type,
	// creating it with zeroed statistics when absent. The implementation must
	// use an atomic upsert so two concurrent first requests cannot create
	// duplicates.
	GetOrCreate(ctx context.Context, dashboardType entity.DashboardType) (*entity.Dashboard, error)

	// Save overwrites the dashboard document and bumps its lastUpdated stamp.
	// Last writer wins; the record is fully derived, so a lost write only
	// costs a recomputation.
	Save(ctx context.Context, dashboard *entity.Dashboard) error

	// AppendActivity prepends an activity entry to the dashboard's bounded
	// recent-activity log, atomically trimming it to limit entries. The
	// dashboard is created first when absent.
	AppendActivity(ctx context.Context, dashboardType entity.DashboardType, activity entity.Activity, limit int) error
}
