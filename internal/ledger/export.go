package ledger

import (
	"bufio"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

var exportHeader = []string{
	"date", "sku", "product", "category", "units_sold",
	"cost_price", "sale_price", "total_revenue", "total_cost", "profit",
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("export sales", slog.Any("error", err))
		http.Error(w, "Failed to export sales", http.StatusInternalServerError)
		return
	}

	filename := "sales-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true

	if err := writer.Write(exportHeader); err != nil {
		h.logger.Error("write csv header", slog.Any("error", err))
		return
	}
	for i, s := range sales {
		row := []string{
			s.Date.UTC().Format("2006-01-02"),
			s.SKU,
			s.ProductName,
			string(s.Category),
			strconv.Itoa(s.UnitsSold),
			formatMoney(s.CostPrice),
			formatMoney(s.SalePrice),
			formatMoney(s.TotalRevenue),
			formatMoney(s.TotalCost),
			formatMoney(s.Profit),
		}
		if err := writer.Write(row); err != nil {
			h.logger.Error("write csv row", slog.Any("error", err))
			return
		}
		if (i+1)%csvFlushEvery == 0 {
			writer.Flush()
			if err := buf.Flush(); err != nil {
				return
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("flush csv", slog.Any("error", err))
		return
	}
	_ = buf.Flush()
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
