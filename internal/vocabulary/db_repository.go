package vocabulary

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/chat2dutch/internal/database"
)

const insertBatchSize = 500

// DBRepository stores one user's dictionary in the dictionary_words table.
// The position column preserves the storage (frequency-descending) order.
type DBRepository struct {
	db     *sqlx.DB
	userID string
	now    func() time.Time
}

func NewDBRepository(db *sqlx.DB, userID string) *DBRepository {
	return &DBRepository{
		db:     db,
		userID: userID,
		now:    time.Now,
	}
}

func (r *DBRepository) Load(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx, &entries,
		"SELECT word, frequency, status, last_updated FROM dictionary_words WHERE user_id = ? ORDER BY position",
		r.userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(dictionary_words) > %w", err)
	}
	return entries, nil
}

func (r *DBRepository) Save(ctx context.Context, entries []Entry) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM dictionary_words WHERE user_id = ?", r.userID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete dictionary_words) > %w", err)
		}

		columns := []string{"user_id", "position", "word", "frequency", "status", "last_updated"}
		for start := 0; start < len(entries); start += insertBatchSize {
			end := min(start+insertBatchSize, len(entries))
			batch := entries[start:end]

			args := make([]interface{}, 0, len(batch)*len(columns))
			for i, entry := range batch {
				args = append(args, r.userID, start+i, entry.Word, entry.Frequency, int(entry.Status), entry.LastUpdated)
			}
			query := database.BuildMultiRowInsert("dictionary_words", columns, len(batch))
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("tx.ExecContext(insert dictionary_words) > %w", err)
			}
		}
		return nil
	})
}

func (r *DBRepository) UpdateStatus(ctx context.Context, word string, known bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE dictionary_words SET status = ?, last_updated = ? WHERE user_id = ? AND word = ?",
		int(StatusOf(known)), r.now().Truncate(time.Second), r.userID, word)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update dictionary_words) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected > 0 {
		return nil
	}

	// A row whose values did not change is not counted as affected.
	var count int
	if err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM dictionary_words WHERE user_id = ? AND word = ?",
		r.userID, word); err != nil {
		return fmt.Errorf("db.GetContext(count dictionary_words) > %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%q: %w", word, ErrNotFound)
	}
	return nil
}
