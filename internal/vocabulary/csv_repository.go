package vocabulary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
)

// CSVRepository keeps the dictionary in a CSV file with the columns
// Word, Frequency, Status (0/1) and Last Updated.
type CSVRepository struct {
	path string
	now  func() time.Time
}

func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{
		path: path,
		now:  time.Now,
	}
}

func (r *CSVRepository) Path() string {
	return r.path
}

// Load parses the whole file. A row with the wrong number of columns fails with
// *MalformedRecordError. Unparsable frequency, status or timestamp cells fall back to
// zero values and are logged.
func (r *CSVRepository) Load(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := flatfile.Read(r.path, func(reader io.Reader) error {
		var err error
		entries, err = r.decode(reader)
		return err
	}); err != nil {
		return nil, fmt.Errorf("flatfile.Read > %w", err)
	}
	return entries, nil
}

func (r *CSVRepository) decode(reader io.Reader) ([]Entry, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	entries := make([]Entry, 0)
	seen := make(map[string]bool)
	isHeader := true
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &MalformedRecordError{Path: r.path, Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return nil, fmt.Errorf("csvReader.Read > %w", err)
		}
		line, _ := csvReader.FieldPos(0)
		if isHeader {
			isHeader = false
			continue
		}
		if len(row) != len(Header) {
			return nil, &MalformedRecordError{
				Path:   r.path,
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(Header), len(row)),
			}
		}

		entry := r.parseRow(row, line)
		if seen[entry.Word] {
			slog.Default().Warn("duplicate word in dictionary, keeping the first row",
				"path", r.path, "line", line, "word", entry.Word)
			continue
		}
		seen[entry.Word] = true
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *CSVRepository) parseRow(row []string, line int) Entry {
	entry := Entry{Word: row[0]}

	frequency, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil || frequency < 0 {
		slog.Default().Warn("invalid frequency, falling back to 0",
			"path", r.path, "line", line, "word", entry.Word, "value", row[1])
		frequency = 0
	}
	entry.Frequency = frequency

	status, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || (status != int(StatusUnknown) && status != int(StatusKnown)) {
		slog.Default().Warn("invalid status, falling back to unknown",
			"path", r.path, "line", line, "word", entry.Word, "value", row[2])
		status = int(StatusUnknown)
	}
	entry.Status = Status(status)

	lastUpdated, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(row[3]), time.Local)
	if err != nil {
		slog.Default().Warn("invalid timestamp, falling back to zero time",
			"path", r.path, "line", line, "word", entry.Word, "value", row[3])
		lastUpdated = time.Time{}
	}
	entry.LastUpdated = lastUpdated
	return entry
}

// Save rewrites the whole file in one pass.
func (r *CSVRepository) Save(ctx context.Context, entries []Entry) error {
	if err := flatfile.Write(r.path, func(w io.Writer) error {
		return encode(w, entries)
	}); err != nil {
		return fmt.Errorf("flatfile.Write > %w", err)
	}
	return nil
}

func encode(w io.Writer, entries []Entry) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.UseCRLF = true
	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("csvWriter.Write(header) > %w", err)
	}
	for _, entry := range entries {
		if err := csvWriter.Write([]string{
			entry.Word,
			strconv.Itoa(entry.Frequency),
			strconv.Itoa(int(entry.Status)),
			entry.LastUpdated.Format(TimestampLayout),
		}); err != nil {
			return fmt.Errorf("csvWriter.Write(%s) > %w", entry.Word, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (r *CSVRepository) UpdateStatus(ctx context.Context, word string, known bool) error {
	entries, err := r.Load(ctx)
	if err != nil {
		return fmt.Errorf("r.Load > %w", err)
	}

	found := false
	for i := range entries {
		if entries[i].Word != word {
			continue
		}
		entries[i].Status = StatusOf(known)
		entries[i].LastUpdated = r.now().Truncate(time.Second)
		found = true
		break
	}
	if !found {
		return fmt.Errorf("%q: %w", word, ErrNotFound)
	}

	if err := r.Save(ctx, entries); err != nil {
		return fmt.Errorf("r.Save > %w", err)
	}
	return nil
}
