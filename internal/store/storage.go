package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

type Storage struct {
	RawInvoices interface {
		Upsert(ctx context.Context, raw *RawInvoice) error
		MarkProcessed(ctx context.Context, id int64) error
		MarkProcessingError(ctx context.Context, id int64, message string) error
		GetByInvoiceID(ctx context.Context, fullbayInvoiceID string) (*RawInvoice, error)
	}

	LineItems interface {
		ReplaceForInvoice(ctx context.Context, fullbayInvoiceID string, items []types.LineItem) (int, error)
		GetByInvoice(ctx context.Context, fullbayInvoiceID string) ([]types.LineItem, error)
	}

	IngestionHistory interface {
		InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error
		UpdateIngestionStatus(ctx context.Context, id int64, status string) error
		FinishIngestion(ctx context.Context, history *IngestionHistory) error
		GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error)
		GetHistoryInRange(ctx context.Context, startDate, endDate time.Time) ([]IngestionHistory, error)
	}

	Reports interface {
		GetRevenueByType(ctx context.Context, f ReportFilter) ([]RevenueByType, error)
		GetTopCustomers(ctx context.Context, f ReportFilter, limit int) ([]TopCustomer, error)
		GetTechnicianHours(ctx context.Context, f ReportFilter) ([]TechnicianHours, error)
		GetPartsMargin(ctx context.Context, f ReportFilter) ([]PartsMargin, error)
		GetIngestionQuality(ctx context.Context, f ReportFilter) ([]IngestionQuality, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		RawInvoices:      &RawInvoiceStore{db: db},
		LineItems:        &LineItemStore{db: db},
		IngestionHistory: &IngestionHistoryStore{db: db},
		Reports:          &ReportsStore{db: db},
	}
}
