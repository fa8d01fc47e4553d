package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFlyerExpiry = "flyers.expire"

type FlyerExpiryPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewFlyerExpiryTask(payload FlyerExpiryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFlyerExpiry, data), nil
}

func ParseFlyerExpiryPayload(task *asynq.Task) (FlyerExpiryPayload, error) {
	var payload FlyerExpiryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FlyerExpiryPayload{}, err
	}
	return payload, nil
}
