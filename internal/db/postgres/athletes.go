package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kailas-cloud/athletedex/internal/db"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/filter"
)

// FindAthletes returns one page of athletes matching p, with school, sports and categories loaded.
func (s *Store) FindAthletes(
	ctx context.Context, p filter.Predicate, sort filter.Sort, offset, limit int,
) (out []athlete.Profile, err error) {
	defer func(start time.Time) { err = observe(db.OpFindAthletes, start, err) }(time.Now())

	tx, err := s.findQuery(s.db.WithContext(ctx), p, sort, offset, limit)
	if err != nil {
		return nil, err
	}

	var rows []Athlete
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out = make([]athlete.Profile, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) findQuery(tx *gorm.DB, p filter.Predicate, sort filter.Sort, offset, limit int) (*gorm.DB, error) {
	tx, err := applyPredicate(tx.Model(&Athlete{}), p)
	if err != nil {
		return nil, err
	}
	if tx, err = applySort(tx, sort); err != nil {
		return nil, err
	}
	return tx.
		Preload("School").
		Preload("Sports", func(tx *gorm.DB) *gorm.DB { return tx.Order("sports.label") }).
		Preload("Categories", func(tx *gorm.DB) *gorm.DB { return tx.Order("athlete_categories.confidence_score DESC") }).
		Preload("Categories.Category").
		Offset(offset).
		Limit(limit), nil
}

// CountAthletes counts athletes matching p.
func (s *Store) CountAthletes(ctx context.Context, p filter.Predicate) (total int64, err error) {
	defer func(start time.Time) { err = observe(db.OpCountAthletes, start, err) }(time.Now())

	tx, err := applyPredicate(s.db.WithContext(ctx).Model(&Athlete{}), p)
	if err != nil {
		return 0, err
	}
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type statsRow struct {
	Total         int64
	Active        int64
	Alumni        int64
	AvgScore      float64
	AvgFollowers  float64
	AvgEngagement float64
}

const statsSelect = "COUNT(*) AS total, " +
	"COUNT(*) FILTER (WHERE is_active) AS active, " +
	"COUNT(*) FILTER (WHERE is_alumni) AS alumni, " +
	"COALESCE(AVG(score), 0) AS avg_score, " +
	"COALESCE(AVG(total_followers), 0) AS avg_followers, " +
	"COALESCE(AVG(engagement_rate), 0) AS avg_engagement"

// Stats aggregates roster counts and averages in one pass. Averages are 0 on an empty table.
func (s *Store) Stats(ctx context.Context) (out athlete.Stats, err error) {
	defer func(start time.Time) { err = observe(db.OpStats, start, err) }(time.Now())

	var row statsRow
	if err := s.db.WithContext(ctx).Model(&Athlete{}).Select(statsSelect).Scan(&row).Error; err != nil {
		return athlete.Stats{}, err
	}
	return athlete.Stats{
		TotalAthletes:  row.Total,
		ActiveAthletes: row.Active,
		AlumniAthletes: row.Alumni,
		AvgScore:       row.AvgScore,
		AvgFollowers:   row.AvgFollowers,
		AvgEngagement:  row.AvgEngagement,
	}, nil
}
