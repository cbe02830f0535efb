package services

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"retail-datagen/internal/models"
	"retail-datagen/internal/observability"
)

const (
	batchSize    = 10000
	maxWorkers   = 10
	cacheVersion = "v2"
)

// requiredColumns are the transaction file columns the aggregates read.
var requiredColumns = []string{
	"TransactionDate", "Country", "Region", "Currency",
	"ProductName", "Department", "Category",
	"Quantity", "Price", "PaymentMethod",
}

type PrecomputedData struct {
	CountryRevenue []models.CountryRevenue   `json:"country_revenue"`
	TopProducts    []models.ProductFrequency `json:"top_products"`
	MonthlySales   []models.MonthlyData      `json:"monthly_sales"`
	TopRegions     []models.RegionRevenue    `json:"top_regions"`
	PaymentMix     []models.PaymentMix       `json:"payment_mix"`
	LastModified   time.Time                 `json:"last_modified"`
	RecordCount    int64                     `json:"record_count"`
	SkippedCount   int64                     `json:"skipped_count"`
}

// Analytics aggregates a generated transactions file for the dashboard.
type Analytics struct {
	mu          sync.RWMutex
	precomputed *PrecomputedData
	cacheDir    string
	skipped     atomic.Int64
	logger      *slog.Logger
	metrics     *observability.Metrics
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		precomputed: &PrecomputedData{},
		cacheDir:    ".cache",
		logger:      logger,
	}
}

// SetCacheDir changes where aggregate caches are kept. An empty dir
// disables caching.
func (a *Analytics) SetCacheDir(dir string) {
	a.cacheDir = dir
}

func (a *Analytics) SetMetrics(m *observability.Metrics) {
	a.metrics = m
}

// SetData replaces the aggregates with ones computed from sales.
func (a *Analytics) SetData(sales []models.Sale) {
	agg := newAggregates()
	for _, s := range sales {
		agg.add(s)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.precomputed = agg.finish(int64(len(sales)), 0)
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	ctx, span := observability.StartSpan(ctx, "analytics.load")
	defer span.Finish()

	if cached, err := a.loadFromCache(filename); err == nil {
		info, err := os.Stat(filename)
		if err == nil && info.ModTime().Before(cached.LastModified) {
			a.mu.Lock()
			a.precomputed = cached
			a.mu.Unlock()
			a.logger.Info("loaded from cache", "records", cached.RecordCount, "trace_id", span.TraceID)
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename, "trace_id", span.TraceID)

	if err := a.streamProcessCSV(ctx, filename); err != nil {
		span.SetError(err)
		return fmt.Errorf("process csv: %w", err)
	}

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	elapsed := time.Since(start)
	a.mu.RLock()
	count, skipped := a.precomputed.RecordCount, a.precomputed.SkippedCount
	a.mu.RUnlock()

	if a.metrics != nil {
		a.metrics.ObserveLoad(count, skipped, elapsed)
	}

	a.logger.Info("csv processing complete",
		"records", count,
		"skipped", skipped,
		"duration", elapsed,
		"rate", fmt.Sprintf("%.0f records/sec", float64(count)/elapsed.Seconds()),
	)
	return nil
}

// columns maps each required column to its index in the header row.
type columns map[string]int

func parseHeader(line string) (columns, error) {
	cols := make(columns)
	for i, name := range strings.Split(line, ",") {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func (a *Analytics) streamProcessCSV(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("empty file")
	}
	cols, err := parseHeader(scanner.Text())
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}

	a.skipped.Store(0)
	total := newAggregates()
	var records int64
	batch := make([]string, 0, batchSize)

	flush := func() error {
		agg, n, err := a.processBatch(ctx, cols, batch)
		if err != nil {
			return err
		}
		total.merge(agg)
		records += n
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch = append(batch, scanner.Text())
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}

	if records == 0 {
		return fmt.Errorf("no valid records found")
	}

	precomputed := total.finish(records, a.skipped.Load())

	a.mu.Lock()
	a.precomputed = precomputed
	a.mu.Unlock()
	return nil
}

// processBatch parses lines in parallel, each worker owning a slice of the
// batch and a local aggregate that is merged once all workers finish.
func (a *Analytics) processBatch(ctx context.Context, cols columns, batch []string) (*aggregates, int64, error) {
	workers := min(maxWorkers, len(batch))
	chunk := (len(batch) + workers - 1) / workers
	locals := make([]*aggregates, workers)
	counts := make([]int64, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(batch))
		g.Go(func() error {
			agg := newAggregates()
			for _, line := range batch[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				sale, err := parseSale(cols, strings.Split(line, ","))
				if err != nil {
					a.skipped.Add(1)
					continue
				}
				agg.add(sale)
				counts[w]++
			}
			locals[w] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	merged := newAggregates()
	var n int64
	for w, agg := range locals {
		if agg != nil {
			merged.merge(agg)
		}
		n += counts[w]
	}
	return merged, n, nil
}

func parseSale(cols columns, record []string) (models.Sale, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(record) {
			return "", fmt.Errorf("insufficient columns")
		}
		return strings.TrimSpace(record[i]), nil
	}

	var values [10]string
	for i, name := range requiredColumns {
		v, err := field(name)
		if err != nil {
			return models.Sale{}, err
		}
		values[i] = v
	}

	date, err := time.Parse(models.DateTimeLayout, values[0])
	if err != nil {
		return models.Sale{}, err
	}
	quantity, err := strconv.Atoi(values[7])
	if err != nil {
		return models.Sale{}, err
	}
	price, err := strconv.ParseFloat(values[8], 64)
	if err != nil {
		return models.Sale{}, err
	}

	return models.Sale{
		Date:          date,
		Country:       values[1],
		Region:        values[2],
		Currency:      values[3],
		ProductName:   values[4],
		Department:    values[5],
		Category:      values[6],
		Quantity:      quantity,
		Price:         price,
		PaymentMethod: values[9],
	}, nil
}

type aggregates struct {
	country map[string]*models.CountryRevenue
	product map[string]*models.ProductFrequency
	monthly map[string]float64
	region  map[string]*models.RegionRevenue
	payment map[string]*models.PaymentMix
}

func newAggregates() *aggregates {
	return &aggregates{
		country: make(map[string]*models.CountryRevenue),
		product: make(map[string]*models.ProductFrequency),
		monthly: make(map[string]float64),
		region:  make(map[string]*models.RegionRevenue),
		payment: make(map[string]*models.PaymentMix),
	}
}

func (g *aggregates) add(s models.Sale) {
	key := s.Country + "|" + s.ProductName + "|" + s.Category
	cr := g.country[key]
	if cr == nil {
		cr = &models.CountryRevenue{Country: s.Country, Currency: s.Currency, ProductName: s.ProductName, Category: s.Category}
		g.country[key] = cr
	}
	cr.TotalRevenue += s.Price
	cr.Transactions++

	pf := g.product[s.ProductName]
	if pf == nil {
		pf = &models.ProductFrequency{ProductName: s.ProductName, Department: s.Department, Category: s.Category}
		g.product[s.ProductName] = pf
	}
	pf.Frequency++
	pf.UnitsSold += s.Quantity

	g.monthly[s.Date.Format("2006-01")] += s.Price

	rr := g.region[s.Region]
	if rr == nil {
		rr = &models.RegionRevenue{Region: s.Region}
		g.region[s.Region] = rr
	}
	rr.Revenue += s.Price
	rr.ItemsSold += s.Quantity

	pm := g.payment[s.PaymentMethod]
	if pm == nil {
		pm = &models.PaymentMix{Method: s.PaymentMethod}
		g.payment[s.PaymentMethod] = pm
	}
	pm.Transactions++
	pm.Revenue += s.Price
}

func (g *aggregates) merge(o *aggregates) {
	for k, v := range o.country {
		if cur := g.country[k]; cur != nil {
			cur.TotalRevenue += v.TotalRevenue
			cur.Transactions += v.Transactions
		} else {
			c := *v
			g.country[k] = &c
		}
	}
	for k, v := range o.product {
		if cur := g.product[k]; cur != nil {
			cur.Frequency += v.Frequency
			cur.UnitsSold += v.UnitsSold
		} else {
			c := *v
			g.product[k] = &c
		}
	}
	for k, v := range o.monthly {
		g.monthly[k] += v
	}
	for k, v := range o.region {
		if cur := g.region[k]; cur != nil {
			cur.Revenue += v.Revenue
			cur.ItemsSold += v.ItemsSold
		} else {
			c := *v
			g.region[k] = &c
		}
	}
	for k, v := range o.payment {
		if cur := g.payment[k]; cur != nil {
			cur.Transactions += v.Transactions
			cur.Revenue += v.Revenue
		} else {
			c := *v
			g.payment[k] = &c
		}
	}
}

func (g *aggregates) finish(records, skipped int64) *PrecomputedData {
	return &PrecomputedData{
		CountryRevenue: sortedDesc(g.country, func(v models.CountryRevenue) float64 { return v.TotalRevenue }, func(v models.CountryRevenue) string { return v.Country + v.ProductName }),
		TopProducts:    sortedDesc(g.product, func(v models.ProductFrequency) float64 { return float64(v.Frequency) }, func(v models.ProductFrequency) string { return v.ProductName }),
		MonthlySales:   monthlySeries(g.monthly),
		TopRegions:     sortedDesc(g.region, func(v models.RegionRevenue) float64 { return v.Revenue }, func(v models.RegionRevenue) string { return v.Region }),
		PaymentMix:     sortedDesc(g.payment, func(v models.PaymentMix) float64 { return float64(v.Transactions) }, func(v models.PaymentMix) string { return v.Method }),
		LastModified:   time.Now(),
		RecordCount:    records,
		SkippedCount:   skipped,
	}
}

// sortedDesc flattens groups ordered by score descending, ties broken by
// name so the order is stable across runs.
func sortedDesc[T any](groups map[string]*T, score func(T) float64, name func(T) string) []T {
	result := make([]T, 0, len(groups))
	for _, v := range groups {
		result = append(result, *v)
	}
	slices.SortFunc(result, func(a, b T) int {
		sa, sb := score(a), score(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return strings.Compare(name(a), name(b))
	})
	return result
}

// monthlySeries returns monthly volume in calendar order.
func monthlySeries(groups map[string]float64) []models.MonthlyData {
	result := make([]models.MonthlyData, 0, len(groups))
	for month, volume := range groups {
		result = append(result, models.MonthlyData{Month: month, Volume: volume})
	}
	slices.SortFunc(result, func(a, b models.MonthlyData) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

func (a *Analytics) cacheFilename(csvPath string) string {
	abs, err := filepath.Abs(csvPath)
	if err != nil {
		abs = csvPath
	}
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(abs)
	return filepath.Join(a.cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func (a *Analytics) saveToCache(csvPath string) error {
	if a.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.cacheDir, 0o755); err != nil {
		return err
	}

	file, err := os.Create(a.cacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()
	return gob.NewEncoder(file).Encode(a.precomputed)
}

func (a *Analytics) loadFromCache(csvPath string) (*PrecomputedData, error) {
	if a.cacheDir == "" {
		return nil, os.ErrNotExist
	}

	file, err := os.Open(a.cacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data PrecomputedData
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (a *Analytics) CountryRevenue() []models.CountryRevenue {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.CountryRevenue
}

func (a *Analytics) TopProducts(limit int) []models.ProductFrequency {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return head(a.precomputed.TopProducts, limit)
}

func (a *Analytics) MonthlySales() []models.MonthlyData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.MonthlySales
}

func (a *Analytics) TopRegions(limit int) []models.RegionRevenue {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return head(a.precomputed.TopRegions, limit)
}

func (a *Analytics) PaymentMix() []models.PaymentMix {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.PaymentMix
}

func head[T any](s []T, limit int) []T {
	if limit < 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}

func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":    a.precomputed.RecordCount,
		"skipped_count":   a.precomputed.SkippedCount,
		"last_processed":  a.precomputed.LastModified,
		"country_rows":    len(a.precomputed.CountryRevenue),
		"products":        len(a.precomputed.TopProducts),
		"months":          len(a.precomputed.MonthlySales),
		"regions":         len(a.precomputed.TopRegions),
		"payment_methods": len(a.precomputed.PaymentMix),
	}
}
