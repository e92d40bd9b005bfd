package fullbay

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/client"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/flatten"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/load"
	"github.com/kerrybros/fullbay-ingest/internal/logger"
	"github.com/kerrybros/fullbay-ingest/internal/store"
)

// InvoiceSource yields the invoice documents for one reference date range.
// The API client satisfies it; file-based ingestion and tests bring their
// own.
type InvoiceSource interface {
	GetInvoices(ctx context.Context, start, end time.Time) ([]client.Document, error)
}

type IngestionJob struct {
	Date    time.Time
	Attempt int
	Trigger string
}

type IngestionResult struct {
	Job       IngestionJob
	HistoryID int64
	Fetched   int
	Loaded    int
	Failed    int
	Rows      int
	Error     error

	// kinds holds the distinct warning categories seen across the day's
	// invoices, recorded on the finalized history row.
	kinds []string
}

type Orchestrator struct {
	source      InvoiceSource
	storage     *store.Storage
	appLogger   *logger.Logger
	flattenCfg  flatten.Config
	executionID string
	sourceName  string
	shopID      string

	// Settings
	maxConcurrency int
	retryLimit     int
	staleTimeout   time.Duration

	// Internal State
	statusMap map[string]store.IngestionHistory
	mu        sync.RWMutex
	wg        sync.WaitGroup

	// Job accounting. The job channel closes once the producer is done
	// AND every queued job has reached a terminal outcome, so the retry
	// path never races the shutdown.
	jobMu   sync.Mutex
	pending int
	closed  bool

	// Channels
	jobChan    chan IngestionJob
	resultChan chan IngestionResult
}

func NewOrchestrator(source InvoiceSource, storage *store.Storage, appLogger *logger.Logger, executionID string, concurrency int) *Orchestrator {
	return &Orchestrator{
		source:         source,
		storage:        storage,
		appLogger:      appLogger,
		flattenCfg:     flatten.DefaultConfig(),
		executionID:    executionID,
		sourceName:     store.SourceFullbayAPI,
		maxConcurrency: concurrency,
		retryLimit:     3,
		staleTimeout:   30 * time.Minute,
		statusMap:      make(map[string]store.IngestionHistory),
		jobChan:        make(chan IngestionJob, 100),
		resultChan:     make(chan IngestionResult, 100),
	}
}

// SetFlattenConfig overrides the default transform vocabularies.
func (o *Orchestrator) SetFlattenConfig(cfg flatten.Config) {
	o.flattenCfg = cfg
}

// SetSourceName labels the ingestion records when the source is not the
// live API.
func (o *Orchestrator) SetSourceName(name string) {
	o.sourceName = name
}

// SetShopID labels the ingestion records with the shop the API key
// belongs to.
func (o *Orchestrator) SetShopID(id string) {
	o.shopID = id
}

// InitializeState loads prior ingestion outcomes for the date range so
// already-successful days can be skipped up front.
func (o *Orchestrator) InitializeState(ctx context.Context, startDate, endDate time.Time) error {
	const component = "Orchestrator-Init"
	o.appLogger.Info(component, "Syncing initial state from database: range=%s to %s",
		startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))

	history, err := o.storage.IngestionHistory.GetHistoryInRange(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, h := range history {
		dateKey := h.ReferenceDate.Format(time.DateOnly)
		// Only the latest record per date matters.
		if existing, ok := o.statusMap[dateKey]; !ok || h.ProcessedAt.After(existing.ProcessedAt) {
			o.statusMap[dateKey] = h
		}
	}

	o.appLogger.Info(component, "State sync complete: uniqueDatesFound=%d", len(o.statusMap))
	return nil
}

// ShouldProcess decides whether a reference date needs another attempt.
// In-progress records older than the stale timeout are taken over; they
// belong to a run that died without finalizing.
func (o *Orchestrator) ShouldProcess(date time.Time) bool {
	dateKey := date.Format(time.DateOnly)
	o.mu.RLock()
	defer o.mu.RUnlock()

	h, ok := o.statusMap[dateKey]
	if !ok {
		return true // Never tried
	}

	if h.Status == store.StatusInProgress {
		return time.Since(h.ProcessedAt) > o.staleTimeout
	}

	if h.Status == store.StatusSuccess || h.Status == store.StatusSkipped {
		return false
	}

	return true
}

func (o *Orchestrator) Start(ctx context.Context) {
	const component = "Orchestrator"
	o.appLogger.Info(component, "Starting orchestrator: concurrency=%d execution=%s", o.maxConcurrency, o.executionID)

	for i := 0; i < o.maxConcurrency; i++ {
		o.wg.Add(1)
		go o.worker(ctx, &o.wg)
	}

	go o.listenToResults()
}

func (o *Orchestrator) Wait() {
	o.wg.Wait()
	close(o.resultChan)
}

func (o *Orchestrator) AddJob(job IngestionJob) {
	o.jobMu.Lock()
	o.pending++
	o.jobMu.Unlock()
	o.jobChan <- job
}

// Close marks the job stream complete. The channel itself only closes
// once no job can still come back for a retry.
func (o *Orchestrator) Close() {
	o.jobMu.Lock()
	defer o.jobMu.Unlock()
	o.closed = true
	if o.pending == 0 {
		close(o.jobChan)
	}
}

// jobDone retires one job. Called for every terminal outcome, never for
// a retry.
func (o *Orchestrator) jobDone() {
	o.jobMu.Lock()
	defer o.jobMu.Unlock()
	o.pending--
	if o.closed && o.pending == 0 {
		close(o.jobChan)
	}
}

func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup) {
	const component = "Worker"
	defer wg.Done()

	for job := range o.jobChan {
		dateStr := job.Date.Format(time.DateOnly)
		o.appLogger.Debug(component, "Processing job: date=%s attempt=%d", dateStr, job.Attempt)

		history := &store.IngestionHistory{
			ExecutionID:   o.executionID,
			ReferenceDate: job.Date,
			ShopID:        o.shopID,
			Source:        o.sourceName,
			TriggerType:   job.Trigger,
			Status:        store.StatusInProgress,
			WarningKinds:  []string{},
		}

		if err := o.storage.IngestionHistory.InsertIngestionHistory(ctx, history); err != nil {
			o.appLogger.Error(component, "Failed to create in_progress record: date=%s err=%v", dateStr, err)
			o.resultChan <- IngestionResult{Job: job, Error: err}
			continue
		}

		result := o.processDay(ctx, job)
		result.HistoryID = history.ID

		history.Status = finalStatus(result)
		history.InvoicesFetched = result.Fetched
		history.InvoicesLoaded = result.Loaded
		history.InvoicesFailed = result.Failed
		history.LineItemsWritten = result.Rows
		history.WarningKinds = result.kinds

		if err := o.storage.IngestionHistory.FinishIngestion(ctx, history); err != nil {
			o.appLogger.Error(component, "Failed to finalize status: id=%d status=%s err=%v", history.ID, history.Status, err)
		}

		o.resultChan <- result
	}
}

func (o *Orchestrator) processDay(ctx context.Context, job IngestionJob) IngestionResult {
	const component = "Processor"
	dateStr := job.Date.Format(time.DateOnly)
	result := IngestionResult{Job: job}

	docs, err := o.source.GetInvoices(ctx, job.Date, job.Date)
	if err != nil {
		result.Error = fmt.Errorf("fetching invoices for %s: %w", dateStr, err)
		return result
	}
	result.Fetched = len(docs)

	kinds := make(map[string]struct{})
	for i := range docs {
		doc := &docs[i]
		report, err := load.LoadInvoice(ctx, &doc.Invoice, doc.Raw, o.flattenCfg, o.storage, o.appLogger)
		if err != nil {
			result.Failed++
			o.appLogger.Error(component, "Invoice failed: date=%s invoice=%s err=%v",
				dateStr, doc.Invoice.PrimaryKey, err)
			continue
		}

		result.Loaded++
		result.Rows += report.RowsEmitted
		for _, w := range report.Warnings {
			kinds[string(w.Kind)] = struct{}{}
		}
	}

	for k := range kinds {
		result.kinds = append(result.kinds, k)
	}
	sort.Strings(result.kinds)

	return result
}

func finalStatus(r IngestionResult) string {
	switch {
	case r.Error != nil:
		return store.StatusFailure
	case r.Fetched == 0:
		return store.StatusSkipped
	case r.Failed > 0 && r.Loaded > 0:
		return store.StatusPartial
	case r.Failed > 0:
		return store.StatusFailure
	default:
		return store.StatusSuccess
	}
}

func (o *Orchestrator) listenToResults() {
	const component = "Orchestrator-Feedback"
	for result := range o.resultChan {
		dateStr := result.Job.Date.Format(time.DateOnly)

		if result.Error != nil {
			if result.Job.Attempt < o.retryLimit {
				o.appLogger.Warn(component, "Job failed, queuing for retry: date=%s attempt=%d err=%v",
					dateStr, result.Job.Attempt, result.Error)
				result.Job.Attempt++
				// Direct send: the job is still pending, so the channel
				// cannot have closed yet.
				o.jobChan <- result.Job
			} else {
				o.appLogger.Error(component, "Job failed after max retries: date=%s err=%v", dateStr, result.Error)
				o.jobDone()
			}
			continue
		}

		o.appLogger.Info(component, "Job completed: date=%s fetched=%d loaded=%d failed=%d rows=%d",
			dateStr, result.Fetched, result.Loaded, result.Failed, result.Rows)

		o.mu.Lock()
		o.statusMap[dateStr] = store.IngestionHistory{
			Status:        finalStatus(result),
			ReferenceDate: result.Job.Date,
			ProcessedAt:   time.Now(),
		}
		o.mu.Unlock()

		o.jobDone()
	}
}
