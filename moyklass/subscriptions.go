package moyklass

import (
	"context"
	"fmt"
	"net/http"
)

// SubscriptionsService groups the subscription catalogue endpoints and the
// subscriptions sold to users.
type SubscriptionsService struct {
	client *Client
}

// SubscriptionListParams filters GET /v1/company/subscriptions.
type SubscriptionListParams struct {
	Page
}

// SubscriptionParams is the body of POST /v1/company/subscriptions.
type SubscriptionParams struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	VisitCount *int    `json:"visitCount,omitempty"`
	Period     *string `json:"period,omitempty"`
	GroupingID *int    `json:"groupingId,omitempty"`
	CourseIDs  []int   `json:"courseIds,omitempty"`
	ClassIDs   []int   `json:"classIds,omitempty"`
	FilialIDs  []int   `json:"filialIds,omitempty"`
	Comment    *string `json:"comment,omitempty"`
}

// GroupingListParams controls GET /v1/company/subscriptionGroupings.
type GroupingListParams struct {
	IncludeSubscriptions bool `url:"includeSubscriptions"`
}

// UserSubscriptionListParams filters GET /v1/company/userSubscriptions.
type UserSubscriptionListParams struct {
	UserID         *int                 `url:"userId,omitempty"`
	SubscriptionID []int                `url:"subscriptionId,omitempty"`
	StatusID       SubscriptionStatuses `url:"statusId,omitempty"`
	ClassID        []int                `url:"classId,omitempty"`
	FilialID       []int                `url:"filialId,omitempty"`
	SellDate       []string             `url:"sellDate,omitempty"`
	Page
	IncludeRecords bool `url:"includeRecords"`
}

// UserSubscriptionParams is the body of POST /v1/company/userSubscriptions.
type UserSubscriptionParams struct {
	UserID         int      `json:"userId"`
	SubscriptionID int      `json:"subscriptionId"`
	SellDate       string   `json:"sellDate"`
	Price          *float64 `json:"price,omitempty"`
	BeginDate      *string  `json:"beginDate,omitempty"`
	EndDate        *string  `json:"endDate,omitempty"`
	VisitCount     *int     `json:"visitCount,omitempty"`
	MainClassID    *int     `json:"mainClassId,omitempty"`
	ClassIDs       []int    `json:"classIds,omitempty"`
	CourseIDs      []int    `json:"courseIds,omitempty"`
	ManagerID      *int     `json:"managerId,omitempty"`
}

// UserSubscriptionStatusParams is the body of
// POST /v1/company/userSubscriptions/{id}/status. An unknown StatusID is left
// out of the body.
type UserSubscriptionStatusParams struct {
	StatusID   SubscriptionStatus `json:"statusId,omitempty"`
	FreezeFrom *string            `json:"freezeFrom,omitempty"`
	FreezeTo   *string            `json:"freezeTo,omitempty"`
}

// Get retrieves a subscription from the catalogue.
func (s *SubscriptionsService) Get(ctx context.Context, subscriptionID int) (*Response, error) {
	return s.client.Execute(ctx, http.MethodGet, fmt.Sprintf("v1/company/subscriptions/%d", subscriptionID), nil, nil)
}

// List retrieves the subscription catalogue.
func (s *SubscriptionsService) List(ctx context.Context, params *SubscriptionListParams) (*Response, error) {
	p := SubscriptionListParams{}
	if params != nil {
		p = *params
	}
	p.Page = p.Page.withDefaults()

	q, err := encodeQuery(&p)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/subscriptions", q, nil)
}

// Create adds a subscription to the catalogue.
func (s *SubscriptionsService) Create(ctx context.Context, params *SubscriptionParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("subscription params are required")
	}
	return s.client.Execute(ctx, http.MethodPost, "v1/company/subscriptions", nil, params)
}

// Groupings lists subscription groupings.
func (s *SubscriptionsService) Groupings(ctx context.Context, params *GroupingListParams) (*Response, error) {
	if params == nil {
		params = &GroupingListParams{}
	}
	q, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/subscriptionGroupings", q, nil)
}

// ListUserSubscriptions retrieves subscriptions sold to users.
func (s *SubscriptionsService) ListUserSubscriptions(ctx context.Context, params *UserSubscriptionListParams) (*Response, error) {
	p := UserSubscriptionListParams{}
	if params != nil {
		p = *params
	}
	p.Page = p.Page.withDefaults()

	q, err := encodeQuery(&p)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/userSubscriptions", q, nil)
}

// GetUserSubscription retrieves a subscription sold to a user.
func (s *SubscriptionsService) GetUserSubscription(ctx context.Context, userSubscriptionID int) (*Response, error) {
	return s.client.Execute(ctx, http.MethodGet, fmt.Sprintf("v1/company/userSubscriptions/%d", userSubscriptionID), nil, nil)
}

// CreateUserSubscription sells a subscription to a user.
func (s *SubscriptionsService) CreateUserSubscription(ctx context.Context, params *UserSubscriptionParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("user subscription params are required")
	}
	return s.client.Execute(ctx, http.MethodPost, "v1/company/userSubscriptions", nil, params)
}

// SetUserSubscriptionStatus changes the status of a subscription sold to a user.
func (s *SubscriptionsService) SetUserSubscriptionStatus(ctx context.Context, userSubscriptionID int, params *UserSubscriptionStatusParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("status params are required")
	}
	p := *params
	p.StatusID = validOrZero(p.StatusID)
	return s.client.Execute(ctx, http.MethodPost, fmt.Sprintf("v1/company/userSubscriptions/%d/status", userSubscriptionID), nil, &p)
}
