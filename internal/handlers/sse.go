package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"retail-datagen/internal/models"
	"retail-datagen/internal/services"
)

const (
	maxTableRows = 50
	maxProducts  = 20
	maxRegions   = 30
)

var printer = message.NewPrinter(language.English)

// money renders an amount with thousands separators and two decimals.
func money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

var tableFuncs = template.FuncMap{
	"money": money,
	"count": func(n int) string { return printer.Sprintf("%d", n) },
}

var countryTableTemplate = template.Must(template.New("countryTable").Funcs(tableFuncs).Parse(`
<div id="country-content">
<table class="modern-table">
<thead><tr><th>Country</th><th>Currency</th><th>Product</th><th>Category</th><th>Revenue</th><th>Orders</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Country}}</td>
<td>{{.Currency}}</td>
<td>{{.ProductName}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td><strong>{{money .TotalRevenue}}</strong></td>
<td>{{count .Transactions}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var paymentTableTemplate = template.Must(template.New("paymentTable").Funcs(tableFuncs).Parse(`
<div id="payments-content">
<table class="modern-table">
<thead><tr><th>Payment method</th><th>Transactions</th><th>Revenue</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Method}}</td>
<td>{{count .Transactions}}</td>
<td><strong>{{money .Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderCountryTable(data []models.CountryRevenue) (string, error) {
	var buf strings.Builder
	err := countryTableTemplate.Execute(&buf, data[:min(len(data), maxTableRows)])
	return buf.String(), err
}

func (h *SSEHandlers) renderPaymentTable(data []models.PaymentMix) (string, error) {
	var buf strings.Builder
	err := paymentTableTemplate.Execute(&buf, data)
	return buf.String(), err
}

// patch sends an element fragment, then signals when any are given.
func (h *SSEHandlers) patch(w http.ResponseWriter, r *http.Request, html string, signals map[string]any) {
	sse := datastar.NewSSE(w, r)

	if html != "" {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Error("patch elements", "path", r.URL.Path, "error", err)
			return
		}
	}

	if len(signals) > 0 {
		payload, err := json.Marshal(signals)
		if err != nil {
			h.logger.Error("marshal signals", "path", r.URL.Path, "error", err)
			return
		}
		if err := sse.PatchSignals(payload); err != nil {
			h.logger.Error("patch signals", "path", r.URL.Path, "error", err)
			return
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCountryRevenue(w http.ResponseWriter, r *http.Request) {
	html, err := h.renderCountryTable(h.analytics.CountryRevenue())
	if err != nil {
		h.logger.Error("render country table", "error", err)
		return
	}
	h.patch(w, r, html, nil)
}

func (h *SSEHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, `<div id="products-content">Products chart data loaded</div>`, map[string]any{
		"productsData": h.analytics.TopProducts(maxProducts),
	})
}

func (h *SSEHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, `<div id="monthly-content">Monthly sales chart data loaded</div>`, map[string]any{
		"monthlyData": h.analytics.MonthlySales(),
	})
}

func (h *SSEHandlers) HandleTopRegions(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, `<div id="regions-content">Regions chart data loaded</div>`, map[string]any{
		"regionsData": h.analytics.TopRegions(maxRegions),
	})
}

func (h *SSEHandlers) HandlePaymentMix(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.PaymentMix()
	html, err := h.renderPaymentTable(data)
	if err != nil {
		h.logger.Error("render payment table", "error", err)
		return
	}
	h.patch(w, r, html, map[string]any{"paymentsData": data})
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	countries, err := h.renderCountryTable(h.analytics.CountryRevenue())
	if err != nil {
		h.logger.Error("render country table", "error", err)
		return
	}
	payments := h.analytics.PaymentMix()
	paymentHTML, err := h.renderPaymentTable(payments)
	if err != nil {
		h.logger.Error("render payment table", "error", err)
		return
	}

	h.patch(w, r, countries+paymentHTML, map[string]any{
		"productsData": h.analytics.TopProducts(maxProducts),
		"monthlyData":  h.analytics.MonthlySales(),
		"regionsData":  h.analytics.TopRegions(maxRegions),
		"paymentsData": payments,
	})
}
