package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "userId", "endpoint", "tokensUsed", "model", "success", "notes", "createdAt"}

// WriteCSV writes entries as CSV with a header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		tokens := ""
		if e.TokensUsed != nil {
			tokens = strconv.Itoa(*e.TokensUsed)
		}
		record := []string{
			e.ID,
			e.UserID,
			e.Endpoint,
			tokens,
			e.Model,
			strconv.FormatBool(e.Success),
			e.Notes,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
