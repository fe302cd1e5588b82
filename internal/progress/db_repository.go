package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/chat2dutch/internal/database"
)

// DBRepository stores one user's profile in learner_profiles and learner_milestones.
type DBRepository struct {
	db     *sqlx.DB
	userID string
}

func NewDBRepository(db *sqlx.DB, userID string) *DBRepository {
	return &DBRepository{db: db, userID: userID}
}

type profileRecord struct {
	DailyTarget       sql.NullInt64 `db:"daily_target"`
	TotalWordsLearned int           `db:"total_words_learned"`
}

func (r *DBRepository) Load(ctx context.Context) (Profile, error) {
	var record profileRecord
	if err := r.db.GetContext(ctx, &record,
		"SELECT daily_target, total_words_learned FROM learner_profiles WHERE user_id = ?", r.userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNoProfile
		}
		return Profile{}, fmt.Errorf("db.GetContext(learner_profiles) > %w", err)
	}

	milestones := make([]Milestone, 0)
	if err := r.db.SelectContext(ctx, &milestones,
		"SELECT threshold, reward FROM learner_milestones WHERE user_id = ? ORDER BY position", r.userID); err != nil {
		return Profile{}, fmt.Errorf("db.SelectContext(learner_milestones) > %w", err)
	}

	profile := Profile{
		Milestones:        milestones,
		TotalWordsLearned: record.TotalWordsLearned,
	}
	if record.DailyTarget.Valid {
		target := int(record.DailyTarget.Int64)
		profile.DailyTarget = &target
	}
	return profile, nil
}

func (r *DBRepository) Save(ctx context.Context, profile Profile) error {
	dailyTarget := sql.NullInt64{}
	if profile.DailyTarget != nil {
		dailyTarget = sql.NullInt64{Int64: int64(*profile.DailyTarget), Valid: true}
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO learner_profiles (user_id, daily_target, total_words_learned) VALUES (?, ?, ?) "+
				"ON DUPLICATE KEY UPDATE daily_target = VALUES(daily_target), total_words_learned = VALUES(total_words_learned)",
			r.userID, dailyTarget, profile.TotalWordsLearned); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert learner_profiles) > %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM learner_milestones WHERE user_id = ?", r.userID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete learner_milestones) > %w", err)
		}
		if len(profile.Milestones) == 0 {
			return nil
		}

		args := make([]interface{}, 0, len(profile.Milestones)*4)
		for i, milestone := range profile.Milestones {
			args = append(args, r.userID, i, milestone.Threshold, milestone.Reward)
		}
		query := database.BuildMultiRowInsert("learner_milestones", []string{"user_id", "position", "threshold", "reward"}, len(profile.Milestones))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("tx.ExecContext(insert learner_milestones) > %w", err)
		}
		return nil
	})
}
