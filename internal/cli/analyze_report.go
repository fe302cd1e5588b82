package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/chat2dutch/internal/statistics"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

// RunAnalyzeReport prints how many words were marked per month and the dictionary totals.
func RunAnalyzeReport(ctx context.Context, w io.Writer, dictionary vocabulary.Repository, year, month int) error {
	entries, err := dictionary.Load(ctx)
	if err != nil {
		return fmt.Errorf("dictionary.Load > %w", err)
	}
	result := statistics.CalculateStatistics(entries, year, month)

	if len(result.Periods) == 0 {
		_, err := fmt.Fprintln(w, "No learning records found for the specified period.")
		return err
	}

	_, _ = fmt.Fprintln(w, "Vocabulary Statistics Report")
	_, _ = fmt.Fprintln(w, "============================")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%-10s  %-12s  %-12s\n", "Period", "Known", "Unknown")
	_, _ = fmt.Fprintf(w, "%-10s  %-12s  %-12s\n", "------", "-----", "-------")
	for _, s := range result.Periods {
		_, _ = fmt.Fprintf(w, "%-10s  %-12d  %-12d\n", s.Period, s.KnownWords, s.UnknownWords)
	}

	_, _ = fmt.Fprintln(w)
	_, err = fmt.Fprintf(w, "Dictionary: %d words, %d known, %d unknown, %.1f%% of word occurrences known\n",
		result.Aggregate.TotalWords,
		result.Aggregate.KnownWords,
		result.Aggregate.UnknownWords,
		result.Aggregate.Coverage*100,
	)
	return err
}
