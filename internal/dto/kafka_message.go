package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type OrderRequest struct {
	TransactionNumber string      `json:"transaction_number"`
	OrderItems        []OrderItem `json:"order_items"`
}

type StockUpdate struct {
	TransactionNumber string `json:"transaction_number"`
	Status            bool   `json:"status"`
}

type ProductRatedEvent struct {
	ProductID     string  `json:"product_id"`
	OverallRating float64 `json:"overall_rating"`
}

type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}

type StockSetEvent struct {
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}
