package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/glowstock/glowstock/internal/catalog"
	"github.com/glowstock/glowstock/internal/ledger"
)

var evalTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func product(name string, stock int, opts ...func(*catalog.Product)) catalog.Product {
	p := catalog.Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      catalog.CategoryCosmetics,
		Stock:         stock,
		LowStockAlert: catalog.DefaultLowStockAlert,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func expiring(daysFromEval int) func(*catalog.Product) {
	return func(p *catalog.Product) {
		d := evalTime.AddDate(0, 0, daysFromEval)
		p.ExpiryDate = &d
	}
}

func sale(category catalog.Category, revenue, profit float64, daysAgo int) ledger.Sale {
	return ledger.Sale{
		ID:           uuid.New(),
		Category:     category,
		Date:         evalTime.AddDate(0, 0, -daysAgo),
		TotalRevenue: revenue,
		Profit:       profit,
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil, nil, evalTime)

	require.Equal(t, 0, snap.Stats.TotalProducts)
	require.Equal(t, 0.0, snap.Stats.TotalRevenue)
	require.NotNil(t, snap.Charts.RevenueData)
	require.NotNil(t, snap.Charts.CategorySplit)
	require.NotNil(t, snap.Alerts.LowStock)
	require.NotNil(t, snap.Alerts.OutOfStock)
	require.NotNil(t, snap.Alerts.ExpiryAlerts)
	require.NotNil(t, snap.RecentProducts)
}

func TestBuildSnapshotStats(t *testing.T) {
	products := []catalog.Product{
		product("Lipstick", 20),
		product("Serum", 20, func(p *catalog.Product) { p.Category = catalog.CategorySkincare }),
		product("Foundation", 20),
	}
	sales := []ledger.Sale{
		sale(catalog.CategoryCosmetics, 360, 210, 1),
		sale(catalog.CategorySkincare, 480, 260, 40),
	}

	snap := BuildSnapshot(products, sales, evalTime)

	require.Equal(t, 3, snap.Stats.TotalProducts)
	require.Equal(t, 2, snap.Stats.TotalCategories)
	require.Equal(t, 840.0, snap.Stats.TotalRevenue)
	require.Equal(t, 470.0, snap.Stats.TotalProfit)
}

func TestBuildSnapshotRevenueWindow(t *testing.T) {
	sales := []ledger.Sale{
		sale(catalog.CategoryCosmetics, 100, 50, 2),
		sale(catalog.CategoryCosmetics, 40, 20, 2),
		sale(catalog.CategoryCosmetics, 75, 30, 10),
		sale(catalog.CategoryCosmetics, 999, 500, 40), // outside 30-day window
	}

	snap := BuildSnapshot(nil, sales, evalTime)

	require.Len(t, snap.Charts.RevenueData, 2)
	// Buckets sorted ascending by calendar day.
	require.Equal(t, "2025-06-05", snap.Charts.RevenueData[0].Date)
	require.Equal(t, 75.0, snap.Charts.RevenueData[0].Revenue)
	require.Equal(t, "2025-06-13", snap.Charts.RevenueData[1].Date)
	require.Equal(t, 140.0, snap.Charts.RevenueData[1].Revenue)

	// The windowed chart excludes the old sale, the stats still count it.
	require.Equal(t, 1214.0, snap.Stats.TotalRevenue)
}

func TestBuildSnapshotCategorySplit(t *testing.T) {
	sales := []ledger.Sale{
		sale(catalog.CategoryCosmetics, 100, 0, 1),
		sale(catalog.CategorySkincare, 200, 0, 1),
		sale(catalog.CategoryCosmetics, 50, 0, 3),
		sale("", 10, 0, 1),
	}

	snap := BuildSnapshot(nil, sales, evalTime)

	require.Equal(t, []CategorySlice{
		{Name: "Cosmetics", Value: 150},
		{Name: "Skincare", Value: 200},
		{Name: "Uncategorized", Value: 10},
	}, snap.Charts.CategorySplit)
}

func TestBuildSnapshotStockAlerts(t *testing.T) {
	products := []catalog.Product{
		product("Plenty", 50),
		product("Running Low", 10),
		product("Almost Gone", 1),
		product("Gone", 0),
	}

	snap := BuildSnapshot(products, nil, evalTime)

	require.Len(t, snap.Alerts.LowStock, 2)
	require.Len(t, snap.Alerts.OutOfStock, 1)
	require.Equal(t, "Gone", snap.Alerts.OutOfStock[0].Name)
	// Zero stock lands in outOfStock only, never lowStock.
	for _, a := range snap.Alerts.LowStock {
		require.NotEqual(t, "Gone", a.Name)
	}
}

func TestBuildSnapshotExpiryAlerts(t *testing.T) {
	products := []catalog.Product{
		product("Expired Yesterday", 5, expiring(-1)),
		product("Expires Today", 5, expiring(0)),
		product("Expires Soon", 5, expiring(30)),
		product("Expires At Horizon", 5, expiring(90)),
		product("Far Future", 5, expiring(200)),
		product("No Expiry", 5),
	}

	snap := BuildSnapshot(products, nil, evalTime)

	require.Len(t, snap.Alerts.ExpiryAlerts, 4)
	// Most overdue first.
	require.Equal(t, "Expired Yesterday", snap.Alerts.ExpiryAlerts[0].Name)
	require.Equal(t, -1, snap.Alerts.ExpiryAlerts[0].DaysLeft)
	require.Equal(t, "Expires Today", snap.Alerts.ExpiryAlerts[1].Name)
	require.Equal(t, 0, snap.Alerts.ExpiryAlerts[1].DaysLeft)
	require.Equal(t, 30, snap.Alerts.ExpiryAlerts[2].DaysLeft)
	require.Equal(t, 90, snap.Alerts.ExpiryAlerts[3].DaysLeft)
}

func TestBuildSnapshotRecentProducts(t *testing.T) {
	products := make([]catalog.Product, 0, 7)
	for i := 0; i < 7; i++ {
		p := product("Product", 20)
		p.Name = "Product " + string(rune('A'+i))
		p.CreatedAt = evalTime.Add(time.Duration(i) * time.Hour)
		products = append(products, p)
	}

	snap := BuildSnapshot(products, nil, evalTime)

	require.Len(t, snap.RecentProducts, recentProductMax)
	require.Equal(t, "Product G", snap.RecentProducts[0].Name)
	require.Equal(t, "Product C", snap.RecentProducts[4].Name)
}
