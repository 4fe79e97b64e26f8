package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
	"github.com/Lenacars/adminpanel-sub000/internal/observability"
)

// ObjectLister is the object storage contract the pipeline needs: a flat file
// name listing and public URL construction for a given file name.
type ObjectLister interface {
	ListFileNames(ctx context.Context) ([]string, error)
	PublicURL(fileName string) string
}

// Pipeline drives one import batch: validate, match images, reconcile, in
// input order. One invocation processes one batch to completion; there is no
// background queue, retry policy or mid-batch cancellation.
type Pipeline struct {
	lister     ObjectLister
	reconciler *Reconciler
	logger     *slog.Logger
}

func NewPipeline(lister ObjectLister, reconciler *Reconciler, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		lister:     lister,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Run processes the batch. The storage listing is fetched exactly once, up
// front; a listing failure is the only error fatal to the whole batch, every
// other failure is isolated to its row.
func (p *Pipeline) Run(ctx context.Context, rows []model.VehicleRow) (*model.ImportReport, error) {
	start := time.Now()

	fileNames, err := p.lister.ListFileNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage files: %w", err)
	}
	p.logger.Info("import batch started", "rows", len(rows), "storage_files", len(fileNames))

	validator := NewValidator()
	report := &model.ImportReport{Rows: []model.EnrichedRow{}}

	for i, row := range rows {
		valid, err := validator.Validate(row)
		if err != nil {
			if errors.Is(err, ErrDuplicateInBatch) {
				observability.ImportRows.WithLabelValues("duplicate").Inc()
				p.logger.Debug("duplicate stock code dropped", "index", i, "stock_code", strings.TrimSpace(row.StockCode))
				continue
			}
			p.recordError(report, i, strings.TrimSpace(row.StockCode), err)
			continue
		}

		images := MatchImages(ModelKey(valid.Name), fileNames)

		if _, err := p.reconciler.Reconcile(ctx, valid, images, p.lister.PublicURL); err != nil {
			p.recordError(report, i, valid.StockCode, err)
			continue
		}

		report.SuccessCount++
		report.WarningCount += len(valid.Warnings)
		report.Rows = append(report.Rows, enrichRow(valid.VehicleRow, images, p.lister.PublicURL))
		observability.ImportRows.WithLabelValues("success").Inc()
	}

	report.Message = fmt.Sprintf("%d vehicles imported, %d failed", report.SuccessCount, report.ErrorCount)
	observability.BatchDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("import batch finished",
		"success", report.SuccessCount,
		"errors", report.ErrorCount,
		"warnings", report.WarningCount,
		"duration", time.Since(start),
	)
	return report, nil
}

func (p *Pipeline) recordError(report *model.ImportReport, index int, stockCode string, err error) {
	report.ErrorCount++
	report.Errors = append(report.Errors, model.RowError{
		Index:     index,
		StockCode: stockCode,
		Message:   err.Error(),
	})
	observability.ImportRows.WithLabelValues("error").Inc()
	p.logger.Warn("row failed", "index", index, "stock_code", stockCode, "error", err)
}

func enrichRow(row model.VehicleRow, images ImageSet, publicURL func(string) string) model.EnrichedRow {
	enriched := model.EnrichedRow{
		VehicleRow:       row,
		GalleryImageURLs: []string{},
	}
	if images.Cover != "" {
		url := publicURL(images.Cover)
		enriched.CoverImageURL = &url
	}
	for _, name := range images.Gallery {
		enriched.GalleryImageURLs = append(enriched.GalleryImageURLs, publicURL(name))
	}
	return enriched
}
