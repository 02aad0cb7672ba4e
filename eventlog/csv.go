package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"tick", "kind", "subject", "message"}

// WriteCSV writes events to w as CSV with a header row.
func WriteCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range events {
		record := []string{strconv.Itoa(e.Tick), string(e.Kind), e.Subject, e.Message}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads events from CSV previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var events []Event
	for i, row := range rows[1:] { // skip header
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		tick, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid tick %q", i+2, row[0])
		}
		events = append(events, Event{
			Tick:    tick,
			Kind:    Kind(row[1]),
			Subject: row[2],
			Message: row[3],
		})
	}
	return events, nil
}
