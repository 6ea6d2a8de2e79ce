package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/glowstock/glowstock/internal/catalog"
	"github.com/glowstock/glowstock/internal/ledger"
)

const (
	revenueWindowDays = 30
	expiryHorizonDays = 90
	recentProductMax  = 5
)

// Snapshot is the presentation-ready dashboard payload.
type Snapshot struct {
	Stats          Stats           `json:"stats"`
	Charts         Charts          `json:"charts"`
	Alerts         Alerts          `json:"alerts"`
	RecentProducts []RecentProduct `json:"recentProducts"`
}

// Stats holds the headline counters.
type Stats struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalCategories int     `json:"totalCategories"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalProfit     float64 `json:"totalProfit"`
}

// Charts groups the chart series.
type Charts struct {
	RevenueData   []RevenuePoint  `json:"revenueData"`
	CategorySplit []CategorySlice `json:"categorySplit"`
}

// RevenuePoint is one calendar-day revenue bucket.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// CategorySlice is one slice of the category revenue split.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Alerts groups the stock and expiry alert lists.
type Alerts struct {
	LowStock     []LowStockAlert  `json:"lowStock"`
	OutOfStock   []OutOfStockItem `json:"outOfStock"`
	ExpiryAlerts []ExpiryAlert    `json:"expiryAlerts"`
}

// LowStockAlert flags a product at or below its low-stock threshold.
type LowStockAlert struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Stock         int       `json:"stock"`
	LowStockAlert int       `json:"lowStockAlert"`
}

// OutOfStockItem flags a product with zero stock.
type OutOfStockItem struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
}

// ExpiryAlert flags a product expired or expiring within the horizon.
// DaysLeft is negative for already-expired products.
type ExpiryAlert struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExpiryDate time.Time `json:"expiryDate"`
	DaysLeft   int       `json:"daysLeft"`
}

// RecentProduct is one of the most recently created products.
type RecentProduct struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Category  catalog.Category `json:"category"`
	Stock     int              `json:"stock"`
	SalePrice float64          `json:"salePrice"`
}

// BuildSnapshot aggregates the full product and sale collections into the
// dashboard payload. It is a pure function of its inputs; the evaluation
// instant is passed in so windows and expiry arithmetic are deterministic.
func BuildSnapshot(products []catalog.Product, sales []ledger.Sale, now time.Time) Snapshot {
	snap := Snapshot{
		Charts: Charts{
			RevenueData:   []RevenuePoint{},
			CategorySplit: []CategorySlice{},
		},
		Alerts: Alerts{
			LowStock:     []LowStockAlert{},
			OutOfStock:   []OutOfStockItem{},
			ExpiryAlerts: []ExpiryAlert{},
		},
		RecentProducts: []RecentProduct{},
	}

	snap.Stats.TotalProducts = len(products)
	categories := make(map[catalog.Category]struct{})
	for _, p := range products {
		categories[p.Category] = struct{}{}
	}
	snap.Stats.TotalCategories = len(categories)

	windowStart := now.Add(-revenueWindowDays * 24 * time.Hour)
	revenueByDay := make(map[string]float64)
	revenueByCategory := make(map[string]float64)
	for _, s := range sales {
		snap.Stats.TotalRevenue += s.TotalRevenue
		snap.Stats.TotalProfit += s.Profit

		if s.Date.After(windowStart) {
			// Bucketed by the sale's own calendar day, not evaluation time.
			revenueByDay[s.Date.UTC().Format("2006-01-02")] += s.TotalRevenue
		}

		name := string(s.Category)
		if name == "" {
			name = "Uncategorized"
		}
		revenueByCategory[name] += s.TotalRevenue
	}

	for day, revenue := range revenueByDay {
		snap.Charts.RevenueData = append(snap.Charts.RevenueData, RevenuePoint{Date: day, Revenue: revenue})
	}
	sort.Slice(snap.Charts.RevenueData, func(i, j int) bool {
		return snap.Charts.RevenueData[i].Date < snap.Charts.RevenueData[j].Date
	})

	for name, value := range revenueByCategory {
		snap.Charts.CategorySplit = append(snap.Charts.CategorySplit, CategorySlice{Name: name, Value: value})
	}
	sort.Slice(snap.Charts.CategorySplit, func(i, j int) bool {
		return snap.Charts.CategorySplit[i].Name < snap.Charts.CategorySplit[j].Name
	})

	midnight := truncateToDay(now)
	horizon := midnight.Add(expiryHorizonDays * 24 * time.Hour)
	for _, p := range products {
		switch {
		case p.Stock == 0:
			snap.Alerts.OutOfStock = append(snap.Alerts.OutOfStock, OutOfStockItem{ID: p.ID, Name: p.Name, Stock: p.Stock})
		case p.Stock <= p.LowStockAlert:
			snap.Alerts.LowStock = append(snap.Alerts.LowStock, LowStockAlert{ID: p.ID, Name: p.Name, Stock: p.Stock, LowStockAlert: p.LowStockAlert})
		}

		if p.ExpiryDate != nil && !truncateToDay(*p.ExpiryDate).After(horizon) {
			days := int(truncateToDay(*p.ExpiryDate).Sub(midnight) / (24 * time.Hour))
			snap.Alerts.ExpiryAlerts = append(snap.Alerts.ExpiryAlerts, ExpiryAlert{
				ID:         p.ID,
				Name:       p.Name,
				ExpiryDate: *p.ExpiryDate,
				DaysLeft:   days,
			})
		}
	}
	sort.SliceStable(snap.Alerts.ExpiryAlerts, func(i, j int) bool {
		return snap.Alerts.ExpiryAlerts[i].DaysLeft < snap.Alerts.ExpiryAlerts[j].DaysLeft
	})

	recent := make([]catalog.Product, len(products))
	copy(recent, products)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentProductMax {
		recent = recent[:recentProductMax]
	}
	for _, p := range recent {
		snap.RecentProducts = append(snap.RecentProducts, RecentProduct{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			SalePrice: p.SalePrice,
		})
	}

	return snap
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
