// Package jobs defines the asynq task names and payloads shared by the
// api (producer) and worker (consumer).
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TaskStatsRecompute = "stats:recompute"
	TaskNotifyOrder    = "notify:order"
)

// Worker queues. QueueStats is serviced ahead of QueueDefault.
const (
	QueueStats   = "stats"
	QueueDefault = "default"
)

type StatsRecomputePayload struct {
	SellerID string `json:"seller_id"`
}

type NotifyOrderPayload struct {
	OrderID  string `json:"order_id"`
	BuyerID  string `json:"buyer_id"`
	SellerID string `json:"seller_id"`
	Total    int64  `json:"total_cents"`
}

// NewStatsRecomputeTask builds the task that rebuilds a seller's
// aggregates.
func NewStatsRecomputeTask(sellerID uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(StatsRecomputePayload{SellerID: sellerID.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal stats payload: %w", err)
	}
	return asynq.NewTask(TaskStatsRecompute, b), nil
}

// NewNotifyOrderTask builds the task that notifies a seller of a new
// order.
func NewNotifyOrderTask(orderID, buyerID, sellerID uuid.UUID, totalCents int64) (*asynq.Task, error) {
	b, err := json.Marshal(NotifyOrderPayload{
		OrderID:  orderID.String(),
		BuyerID:  buyerID.String(),
		SellerID: sellerID.String(),
		Total:    totalCents,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notify payload: %w", err)
	}
	return asynq.NewTask(TaskNotifyOrder, b), nil
}
