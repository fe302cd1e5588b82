// Package statistics summarizes the dictionary: how many words were marked known per month
// and how much of the frequency list they cover.
package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

// PeriodStatistics holds the words whose last status change falls in a month.
type PeriodStatistics struct {
	Period       string // "2025-01"
	KnownWords   int
	UnknownWords int
}

// AggregateStatistics covers the whole dictionary, regardless of the filter.
type AggregateStatistics struct {
	TotalWords   int
	KnownWords   int
	UnknownWords int
	// Coverage is the share of all counted word occurrences that belong to known words.
	Coverage float64
}

type StatisticsResult struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

// CalculateStatistics groups entries by the month of LastUpdated.
// It accepts optional year and month filters (0 means no filter).
func CalculateStatistics(entries []vocabulary.Entry, year, month int) StatisticsResult {
	periods := make(map[string]*PeriodStatistics)
	var aggregate AggregateStatistics
	var knownFrequency, totalFrequency int

	for _, entry := range entries {
		aggregate.TotalWords++
		totalFrequency += entry.Frequency
		known := entry.Status == vocabulary.StatusKnown
		if known {
			aggregate.KnownWords++
			knownFrequency += entry.Frequency
		} else {
			aggregate.UnknownWords++
		}

		if entry.LastUpdated.IsZero() || !matchesFilter(entry.LastUpdated.Year(), int(entry.LastUpdated.Month()), year, month) {
			continue
		}
		period := fmt.Sprintf("%d-%02d", entry.LastUpdated.Year(), int(entry.LastUpdated.Month()))
		stats, ok := periods[period]
		if !ok {
			stats = &PeriodStatistics{Period: period}
			periods[period] = stats
		}
		if known {
			stats.KnownWords++
		} else {
			stats.UnknownWords++
		}
	}
	if totalFrequency > 0 {
		aggregate.Coverage = float64(knownFrequency) / float64(totalFrequency)
	}

	result := StatisticsResult{
		Periods:   make([]PeriodStatistics, 0, len(periods)),
		Aggregate: aggregate,
	}
	for _, stats := range periods {
		result.Periods = append(result.Periods, *stats)
	}
	// Newest first
	sort.Slice(result.Periods, func(i, j int) bool {
		return result.Periods[i].Period > result.Periods[j].Period
	})
	return result
}

func matchesFilter(entryYear, entryMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if entryYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return entryMonth == filterMonth
}
