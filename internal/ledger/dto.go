package ledger

// RecordSaleRequest is the payload for recording a sale.
type RecordSaleRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	UnitsSold int    `json:"unitsSold" validate:"required,gte=1"`
	Date      string `json:"date"`
}
