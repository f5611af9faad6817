package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row lock strengths. SQLite has no row locks and its dialect drops the clause.
const (
	LockUpdate = "UPDATE"
	LockShare  = "SHARE"
)

// conn returns the transaction handle when one is in flight, otherwise the pool.
// Every statement issued by a service inside runTx must go through tx.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func locked(q *gorm.DB, strength string) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: strength})
}

// maxNumero returns the highest numero of model rows matching where, 0 when none.
func maxNumero(q *gorm.DB, m any, where string, args ...any) (int, error) {
	var n int
	err := q.Model(m).Where(where, args...).Select("COALESCE(MAX(numero), 0)").Scan(&n).Error
	return n, err
}

// compactar closes the gap left by a deleted numero among rows matching where.
// Rows above the gap are first flipped negative and then restored one lower, so the
// (parent, numero) unique index never sees two equal values mid-statement.
func compactar(q *gorm.DB, m any, eliminado int, where string, args ...any) (int64, error) {
	neg := q.Model(m).Where(where, args...).Where("numero > ?", eliminado).
		UpdateColumn("numero", gorm.Expr("-numero"))
	if neg.Error != nil {
		return 0, neg.Error
	}
	if neg.RowsAffected == 0 {
		return 0, nil
	}
	res := q.Model(m).Where(where, args...).Where("numero < 0").
		UpdateColumn("numero", gorm.Expr("-numero - 1"))
	return res.RowsAffected, res.Error
}
