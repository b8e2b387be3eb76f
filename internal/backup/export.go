package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"antesala/internal/reservations"
)

// FileName is the download name of a full backup
const FileName = "reservations-backup.json"

// Source yields the reservations to back up
type Source interface {
	List(order reservations.SortOrder) []reservations.Reservation
}

// Export writes list as two-space indented JSON. A nil list is written as [].
func Export(w io.Writer, list []reservations.Reservation) error {
	if list == nil {
		list = []reservations.Reservation{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Snapshot exports the source in stored order into memory
func Snapshot(src Source) ([]byte, int, error) {
	list := src.List(reservations.SortNone)
	var buf bytes.Buffer
	if err := Export(&buf, list); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(list), nil
}

// Read decodes a backup produced by Export
func Read(r io.Reader) ([]reservations.Reservation, error) {
	var list []reservations.Reservation
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	return list, nil
}
