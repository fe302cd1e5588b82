package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/chat2dutch/internal/database"
)

// DBRepository stores one user's history in search_histories, position 0 first.
type DBRepository struct {
	db     *sqlx.DB
	userID string
}

func NewDBRepository(db *sqlx.DB, userID string) *DBRepository {
	return &DBRepository{db: db, userID: userID}
}

func (r *DBRepository) Load(ctx context.Context) ([]string, error) {
	words := make([]string, 0)
	if err := r.db.SelectContext(ctx, &words,
		"SELECT word FROM search_histories WHERE user_id = ? ORDER BY position", r.userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(search_histories) > %w", err)
	}
	return words, nil
}

func (r *DBRepository) Save(ctx context.Context, words []string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM search_histories WHERE user_id = ?", r.userID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete search_histories) > %w", err)
		}
		if len(words) == 0 {
			return nil
		}

		args := make([]interface{}, 0, len(words)*3)
		for i, word := range words {
			args = append(args, r.userID, i, word)
		}
		query := database.BuildMultiRowInsert("search_histories", []string{"user_id", "position", "word"}, len(words))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("tx.ExecContext(insert search_histories) > %w", err)
		}
		return nil
	})
}
