package kafka

import "time"

// ProductRegisteredEvent represents a product registration event
type ProductRegisteredEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchRecordedEvent represents a committed batch entry
type BatchRecordedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	BatchID        uint      `json:"batch_id"`
	Code           int       `json:"code"`
	ProductID      uint      `json:"product_id"`
	Quantity       int       `json:"quantity"`
	TotalQuantity  int       `json:"total_quantity"`
	ProductionDate string    `json:"production_date"`
	ExpirationDate string    `json:"expiration_date"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductRegistered = "product.registered"
	EventTypeBatchRecorded     = "batch.recorded"
)

// Kafka topics
const (
	TopicProductRegistered = "product-registered"
	TopicBatchRecorded     = "batch-recorded"
)
