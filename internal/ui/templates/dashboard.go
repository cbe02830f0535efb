package templates

//go:generate templ generate

// DashboardProps labels the dashboard page.
type DashboardProps struct {
	Title    string
	Subtitle string
	Source   string
}

// panel is one dashboard section. Its content div is replaced over SSE.
type panel struct {
	ID      string
	Title   string
	Chart   bool
	Loading string
}

var panels = []panel{
	{"country", "Country Revenue Analysis", false, "Loading country revenue..."},
	{"products", "Top 20 Products by Transactions", true, "Loading products..."},
	{"monthly", "Monthly Sales Volume", true, "Loading monthly sales..."},
	{"regions", "Top 30 Regions by Revenue", true, "Loading regions..."},
	{"payments", "Payment Method Mix", false, "Loading payment methods..."},
}
