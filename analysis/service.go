// Package analysis implements project analysis over collected posts: linking
// posts to projects, per-project dynamic fields, upserted analysis values,
// field completion and the report shapes built on top of them.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/waltherrera/Social-Media-Database/logutils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// transaction runs fn in one transaction. gorm rolls back when fn returns an
// error or panics. Sentinel errors pass through untouched; storage errors are
// prefixed with op.
func (s *Service) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil || isDomainError(err) {
		return err
	}
	logutils.Log.WithFields(logutils.Fields{"op": op}).WithError(err).Error("storage failure")
	return fmt.Errorf("%s: %w", op, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound)
}

// insertIgnore inserts row unless a row with the same values in conflictCols
// already exists. It reports whether a row was written; when it was not, row
// carries no ID and the caller must load the stored one.
func insertIgnore(tx *gorm.DB, row any, conflictCols ...string) (bool, error) {
	cols := make([]clause.Column, len(conflictCols))
	for i, name := range conflictCols {
		cols[i] = clause.Column{Name: name}
	}
	res := tx.Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
