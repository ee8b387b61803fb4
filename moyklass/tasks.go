package moyklass

import (
	"context"
	"fmt"
	"net/http"
)

// TasksService groups the task endpoints.
type TasksService struct {
	client *Client
}

// TaskParams is the body of POST /v1/company/tasks. IsAllDay and IsComplete
// are always sent.
type TaskParams struct {
	Body       string `json:"body"`
	BeginDate  string `json:"beginDate"`
	EndDate    string `json:"endDate"`
	IsAllDay   bool   `json:"isAllDay"`
	IsComplete bool   `json:"isComplete"`
	Reminds    []int  `json:"reminds,omitempty"`
	ManagerIDs []int  `json:"managerIds,omitempty"`
	UserID     *int   `json:"userId,omitempty"`
	OwnerID    *int   `json:"ownerId,omitempty"`
	ClassIDs   []int  `json:"classIds,omitempty"`
	FilialIDs  []int  `json:"filialIds,omitempty"`
	CategoryID *int   `json:"categoryId,omitempty"`
}

// Create adds a task.
func (s *TasksService) Create(ctx context.Context, params *TaskParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("task params are required")
	}
	return s.client.Execute(ctx, http.MethodPost, "v1/company/tasks", nil, params)
}
