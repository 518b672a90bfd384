package fs

// Append-only CSV time series, one file per portfolio.
// The file starts with a UTF-8 byte order mark and a header row written once at
// creation; every later write appends exactly one row.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TimestampLayout is the on-disk timestamp format, local time, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

var HistoryHeader = []string{"timestamp", "on_chain_balance", "secondary_balance", "holding_value", "total_value"}

// Record is one observation of a portfolio.
type Record struct {
	Timestamp        time.Time
	OnChainBalance   float64
	SecondaryBalance float64
	HoldingValue     float64
	TotalValue       float64
}

// NewRecord builds a record whose total is the sum of its parts.
func NewRecord(ts time.Time, onChain, secondary, holding float64) Record {
	return Record{
		Timestamp:        ts.Truncate(time.Second),
		OnChainBalance:   onChain,
		SecondaryBalance: secondary,
		HoldingValue:     holding,
		TotalValue:       onChain + secondary + holding,
	}
}

func (r Record) row() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		formatAmount(r.OnChainBalance),
		formatAmount(r.SecondaryBalance),
		formatAmount(r.HoldingValue),
		formatAmount(r.TotalValue),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// HistoryStore reads and appends records in a single CSV file.
type HistoryStore struct {
	Path string
	// Location used to parse timestamps; nil means time.Local.
	Location *time.Location
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{Path: path}
}

func (s *HistoryStore) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// Append writes r as one row, creating the file with BOM and header first if needed.
func (s *HistoryStore) Append(r Record) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file: %w", err)
	}

	var out bytes.Buffer
	if info.Size() == 0 {
		header, err := encodeHeader()
		if err != nil {
			return err
		}
		out.Write(header)
	}
	if err := writeRows(&out, []Record{r}); err != nil {
		return err
	}

	if _, err := f.Write(out.Bytes()); err != nil {
		return fmt.Errorf("failed to append history row: %w", err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing file is an empty
// history; any malformed row fails the whole read.
func (s *HistoryStore) ReadAll() ([]Record, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	return decodeHistory(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()), s.location())
}

// Rewrite replaces the file content with records, via a temp file and rename.
func (s *HistoryStore) Rewrite(records []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	header, err := encodeHeader()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	out.Write(header)
	if err := writeRows(&out, records); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

// encodeHeader returns BOM + header line.
func encodeHeader() ([]byte, error) {
	var line bytes.Buffer
	w := csv.NewWriter(&line)
	if err := w.Write(HistoryHeader); err != nil {
		return nil, fmt.Errorf("failed to encode history header: %w", err)
	}
	w.Flush()

	withBOM, err := unicode.UTF8BOM.NewEncoder().Bytes(line.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode history header: %w", err)
	}
	return withBOM, nil
}

func writeRows(out io.Writer, records []Record) error {
	w := csv.NewWriter(out)
	for _, r := range records {
		if err := w.Write(r.row()); err != nil {
			return fmt.Errorf("failed to encode history row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func decodeHistory(in io.Reader, loc *time.Location) ([]Record, error) {
	r := csv.NewReader(in)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range HistoryHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("history header is missing column %q", name)
		}
	}

	var records []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		line, _ := r.FieldPos(0)

		rec, err := parseRow(row, cols, loc)
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols map[string]int, loc *time.Location) (Record, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	raw := row[cols["timestamp"]]
	ts, err := time.ParseInLocation(TimestampLayout, raw, loc)
	if err != nil {
		return Record{}, fmt.Errorf("bad timestamp: %w", err)
	}
	// ParseInLocation accepts fractional seconds after :05
	if ts.Format(TimestampLayout) != raw {
		return Record{}, fmt.Errorf("bad timestamp %q: want layout %s", raw, TimestampLayout)
	}

	var values [4]float64
	for i, name := range HistoryHeader[1:] {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return Record{}, fmt.Errorf("bad %s: %w", name, err)
		}
		values[i] = v
	}

	return Record{
		Timestamp:        ts,
		OnChainBalance:   values[0],
		SecondaryBalance: values[1],
		HoldingValue:     values[2],
		TotalValue:       values[3],
	}, nil
}
