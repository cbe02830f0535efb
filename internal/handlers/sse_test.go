package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"retail-datagen/internal/models"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{59.98, "59.98"},
		{1234.5, "1,234.50"},
		{7500000, "7,500,000.00"},
	}
	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSSEHandlers_renderCountryTable(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(), testLogger())

	html, err := h.renderCountryTable([]models.CountryRevenue{
		{Country: "USA", Currency: "USD", ProductName: "Product_1", Category: "Category_1", TotalRevenue: 1234.5, Transactions: 1},
		{Country: "Germany", Currency: "EUR", ProductName: "Product_2", Category: "Category_2", TotalRevenue: 59.98, Transactions: 1200},
	})
	if err != nil {
		t.Fatalf("renderCountryTable() error = %v", err)
	}

	for _, want := range []string{
		`<div id="country-content">`,
		"<th>Currency</th>",
		"<td>USD</td>",
		"1,234.50",
		"59.98",
		"1,200",
		"Germany",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestSSEHandlers_renderCountryTable_Truncates(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(), testLogger())

	data := make([]models.CountryRevenue, 75)
	for i := range data {
		data[i] = models.CountryRevenue{Country: "Chile", ProductName: "Product_1", TotalRevenue: float64(i)}
	}

	html, err := h.renderCountryTable(data)
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(html, "<tr>") - 1; rows != maxTableRows {
		t.Errorf("rows = %d, want %d", rows, maxTableRows)
	}
}

func TestSSEHandlers_Streams(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    []string
	}{
		{"country revenue", h.HandleCountryRevenue, []string{"datastar-patch-elements", "country-content", "1,234.50"}},
		{"top products", h.HandleTopProducts, []string{"datastar-patch-signals", "productsData", "Product_1"}},
		{"monthly sales", h.HandleMonthlySales, []string{"datastar-patch-signals", "monthlyData", "2023-01"}},
		{"top regions", h.HandleTopRegions, []string{"datastar-patch-signals", "regionsData", "North America"}},
		{"payment mix", h.HandlePaymentMix, []string{"payments-content", "paymentsData", "Credit Card"}},
		{"refresh all", h.HandleRefreshAll, []string{"country-content", "payments-content", "productsData", "monthlyData", "regionsData", "paymentsData"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/sse", nil))

			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
				t.Errorf("Content-Type = %q", ct)
			}
			body := w.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("stream missing %q", want)
				}
			}
		})
	}
}
