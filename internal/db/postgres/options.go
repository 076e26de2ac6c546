package postgres

import (
	"context"
	"time"

	"github.com/kailas-cloud/athletedex/internal/db"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete"
)

// Schools lists schools ordered by label.
func (s *Store) Schools(ctx context.Context) (out []athlete.SchoolOption, err error) {
	defer func(start time.Time) { err = observe(db.OpSchools, start, err) }(time.Now())

	var rows []School
	err = s.db.WithContext(ctx).Select("id", "label", "conference").Order("label").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out = make([]athlete.SchoolOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, athlete.SchoolOption{ID: r.ID, Label: r.Label, Conference: r.Conference})
	}
	return out, nil
}

// Sports lists sports ordered by label.
func (s *Store) Sports(ctx context.Context) (out []athlete.SportOption, err error) {
	defer func(start time.Time) { err = observe(db.OpSports, start, err) }(time.Now())

	var rows []Sport
	if err = s.db.WithContext(ctx).Select("id", "label").Order("label").Find(&rows).Error; err != nil {
		return nil, err
	}
	out = make([]athlete.SportOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, athlete.SportOption{ID: r.ID, Label: r.Label})
	}
	return out, nil
}

// Conferences lists distinct school conferences in ascending order.
func (s *Store) Conferences(ctx context.Context) (out []string, err error) {
	defer func(start time.Time) { err = observe(db.OpConferences, start, err) }(time.Now())

	out = []string{}
	err = s.db.WithContext(ctx).Model(&School{}).Distinct().Order("conference").Pluck("conference", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Grades lists distinct athlete grades in ascending order.
func (s *Store) Grades(ctx context.Context) (out []string, err error) {
	defer func(start time.Time) { err = observe(db.OpGrades, start, err) }(time.Now())

	out = []string{}
	err = s.db.WithContext(ctx).Model(&Athlete{}).Distinct().Order("grade").Pluck("grade", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists categories ordered by name.
func (s *Store) Categories(ctx context.Context) (out []athlete.Category, err error) {
	defer func(start time.Time) { err = observe(db.OpCategories, start, err) }(time.Now())

	var rows []Category
	if err = s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out = make([]athlete.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, athlete.Category{ID: r.ID, Name: r.Name})
	}
	return out, nil
}
