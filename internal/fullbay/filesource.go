package fullbay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/client"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// FileSource serves invoices from a local JSON export instead of the live
// API. The file is either a bare array of invoice documents or the API's
// envelope with a resultSet field.
type FileSource struct {
	docs []client.Document
}

func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading invoice file: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		var envelope struct {
			ResultSet []json.RawMessage `json:"resultSet"`
		}
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, fmt.Errorf("parsing invoice file %s: %w", path, err)
		}
		raws = envelope.ResultSet
	}

	docs := make([]client.Document, 0, len(raws))
	for i, raw := range raws {
		var inv types.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("decoding invoice at index %d in %s: %w", i, path, err)
		}
		docs = append(docs, client.Document{Invoice: inv, Raw: raw})
	}

	return &FileSource{docs: docs}, nil
}

// Len reports how many documents the file contained.
func (fs *FileSource) Len() int { return len(fs.docs) }

// GetInvoices returns the documents whose invoice date falls inside the
// range. Documents without a parseable date are returned for every range
// so a partial export is never silently dropped.
func (fs *FileSource) GetInvoices(ctx context.Context, start, end time.Time) ([]client.Document, error) {
	var out []client.Document
	for _, doc := range fs.docs {
		d := parse.Date(doc.Invoice.InvoiceDate)
		if d == nil || (!d.Before(start) && !d.After(end)) {
			out = append(out, doc)
		}
	}
	return out, nil
}
