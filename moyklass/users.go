package moyklass

import (
	"context"
	"fmt"
	"net/http"
)

// UsersService groups the client (user) endpoints.
type UsersService struct {
	client *Client
}

// UserListParams filters GET /v1/company/users.
type UserListParams struct {
	CreatedAt     []string `url:"createdAt,omitempty"`
	UpdatedAt     []string `url:"updatedAt,omitempty"`
	StateChangeAt []string `url:"stateChangeAt,omitempty"`
	Phone         *string  `url:"phone,omitempty"`
	Email         *string  `url:"email,omitempty"`
	Name          *string  `url:"name,omitempty"`
	Page
	// Sort defaults to UserSortID, SortDirection to SortAsc. Unknown values
	// are not sent.
	Sort            UserSort      `url:"sort"`
	SortDirection   SortDirection `url:"sortDirection"`
	AmoCRMContactID *int          `url:"amoCRMContactId,omitempty"`
	BitrixContactID *int          `url:"bitrixContactId,omitempty"`
	IncludePayLink  bool          `url:"includePayLink"`
}

// UserAttributeValue sets a custom attribute on a user.
type UserAttributeValue struct {
	AttributeID int `json:"attributeId"`
	Value       any `json:"value"`
}

// UserParams is the body of user create and update requests.
type UserParams struct {
	Name                 string               `json:"name"`
	Email                *string              `json:"email,omitempty"`
	Phone                *string              `json:"phone,omitempty"`
	AdvSourceID          *int                 `json:"advSourceId,omitempty"`
	CreateSourceID       *int                 `json:"createSourceId,omitempty"`
	StatusChangeReasonID *int                 `json:"statusChangeReasonId,omitempty"`
	ClientStateID        *int                 `json:"clientStateId,omitempty"`
	Filials              []int                `json:"filials,omitempty"`
	Responsibles         []int                `json:"responsibles,omitempty"`
	Attributes           []UserAttributeValue `json:"attributes,omitempty"`
}

// Get retrieves a single user.
func (s *UsersService) Get(ctx context.Context, userID int) (*Response, error) {
	return s.client.Execute(ctx, http.MethodGet, fmt.Sprintf("v1/company/users/%d", userID), nil, nil)
}

// List retrieves users matching params. A nil params lists with defaults.
func (s *UsersService) List(ctx context.Context, params *UserListParams) (*Response, error) {
	p := UserListParams{}
	if params != nil {
		p = *params
	}
	p.Page = p.Page.withDefaults()
	if p.Sort == "" {
		p.Sort = UserSortID
	}
	if p.SortDirection == "" {
		p.SortDirection = SortAsc
	}

	q, err := encodeQuery(&p)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/users", q, nil)
}

// Create adds a new user.
func (s *UsersService) Create(ctx context.Context, params *UserParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("user params are required")
	}
	return s.client.Execute(ctx, http.MethodPost, "v1/company/users", nil, params)
}

// Update changes an existing user.
func (s *UsersService) Update(ctx context.Context, userID int, params *UserParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("user params are required")
	}
	return s.client.Execute(ctx, http.MethodPost, fmt.Sprintf("v1/company/users/%d", userID), nil, params)
}

// Attributes lists the custom user attributes defined for the company.
func (s *UsersService) Attributes(ctx context.Context) (*Response, error) {
	return s.client.Execute(ctx, http.MethodGet, "v1/company/userAttributes", nil, nil)
}
