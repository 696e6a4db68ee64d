package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskListingRefresh = "catalog:listing_refresh"

const (
	RefreshReasonProductChanged = "product_changed"
	RefreshReasonScheduled      = "scheduled"
)

// ListingRefreshPayload records what triggered a refresh. Every refresh
// rebuilds the same listing variants, so equal payloads are deduplicated.
type ListingRefreshPayload struct {
	Reason string `json:"reason"`
}

func NewListingRefreshTask(payload ListingRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskListingRefresh, data), nil
}

func ParseListingRefreshPayload(task *asynq.Task) (ListingRefreshPayload, error) {
	var payload ListingRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ListingRefreshPayload{}, err
	}
	return payload, nil
}
