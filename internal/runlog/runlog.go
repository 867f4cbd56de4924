// Package runlog records what each csrmon invocation did to a workspace:
// exports written, inputs processed, lines discarded and lookups that fell
// back to defaults. The log is an append-only CSV at logs/run-log.csv.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/illmaticmd/csrmon/internal/model"
)

// Action values.
const (
	ActionDiscard      = "discard"
	ActionLookupFailed = "lookup-failed"
	ActionExport       = "export"
	ActionProcessed    = "processed"
	ActionStored       = "stored"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Command   string
	Action    string
	Subject   string // file, ticker or line the action concerns
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,command,action,subject,details"

// File is the log location relative to the workspace root.
const File = "logs/run-log.csv"

const (
	numFields  = 6
	colTime    = 0
	colRunID   = 1
	colCommand = 2
	colAction  = 3
	colSubject = 4
	colDetails = 5
)

// Run stamps entries with a shared run id, command and clock.
type Run struct {
	ID      string
	Command string
	Now     func() time.Time
}

func (r Run) entry(action, subject, details string) Entry {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Entry{
		Timestamp: now().UTC(),
		RunID:     r.ID,
		Command:   r.Command,
		Action:    action,
		Subject:   subject,
		Details:   details,
	}
}

// Discards turns parser discards from file into log entries.
func (r Run) Discards(file string, discards []model.Discard) []Entry {
	out := make([]Entry, 0, len(discards))
	for _, d := range discards {
		out = append(out, r.entry(ActionDiscard,
			file+":"+strconv.Itoa(d.Line),
			string(d.Reason)+": "+d.Text))
	}
	return out
}

// Entry builds a single entry.
func (r Run) Entry(action, subject, details string) Entry {
	return r.entry(action, subject, details)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colCommand] = e.Command
	row[colAction] = e.Action
	row[colSubject] = e.Subject
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(row []string) (Entry, error) {
	if len(row) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	ts, err := time.Parse(time.RFC3339, row[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", row[colTime], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     row[colRunID],
		Command:   row[colCommand],
		Action:    row[colAction],
		Subject:   row[colSubject],
		Details:   row[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and
// header if needed. Appending nothing is a no-op.
func Append(root string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	path := filepath.Join(root, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(path)
	needsHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv, or nil if the
// log does not exist yet.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, File))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, row := range rows[1:] {
		e, err := UnmarshalEntry(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
