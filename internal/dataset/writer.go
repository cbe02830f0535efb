package dataset

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"retail-datagen/internal/errors"
	"retail-datagen/internal/generator"
	"retail-datagen/internal/observability"
)

const (
	CustomersFile    = "customers.csv"
	StoresFile       = "stores.csv"
	TransactionsFile = "sales_transactions.csv"
)

// SampleFile names the file holding the first n transactions.
func SampleFile(n int) string {
	return fmt.Sprintf("sample_%d.csv", n)
}

// Writer serializes a dataset as CSV files under one directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteAll writes the customer, store, transaction and sample files. Each
// file is written by its own goroutine; the content of a file depends only on
// its records.
func (w *Writer) WriteAll(ctx context.Context, ds *generator.Dataset, sampleSize int) error {
	ctx, span := observability.StartSpan(ctx, "dataset.write")
	defer span.Finish()

	if sampleSize < 0 {
		err := errors.Validation("sample size must not be negative")
		span.SetError(err)
		return err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		err := errors.InternalWrap(err, "create output directory "+w.dir)
		span.SetError(err)
		return err
	}

	sample := ds.Transactions[:min(sampleSize, len(ds.Transactions))]

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.writeFile(ctx, CustomersFile, ds.Customers, len(ds.Customers)) })
	g.Go(func() error { return w.writeFile(ctx, StoresFile, ds.Stores, len(ds.Stores)) })
	g.Go(func() error { return w.writeFile(ctx, TransactionsFile, ds.Transactions, len(ds.Transactions)) })
	g.Go(func() error { return w.writeFile(ctx, SampleFile(sampleSize), sample, len(sample)) })

	if err := g.Wait(); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

func (w *Writer) writeFile(ctx context.Context, name string, rows any, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return errors.InternalWrap(err, "create "+path)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)
	if err := gocsv.Marshal(rows, bw); err != nil {
		return errors.InternalWrap(err, "encode "+name)
	}
	if err := bw.Flush(); err != nil {
		return errors.InternalWrap(err, "flush "+name)
	}
	if err := f.Close(); err != nil {
		return errors.InternalWrap(err, "close "+path)
	}

	w.logger.Info("wrote file",
		"path", path,
		"rows", count,
		"duration", time.Since(start),
	)
	return nil
}

// ReadFile decodes a CSV file written by Writer back into records.
func ReadFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.InternalWrap(err, "open "+path)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.Unmarshal(bufio.NewReader(f), &rows); err != nil {
		return nil, errors.InternalWrap(err, "decode "+path)
	}
	return rows, nil
}
