package moyklass

import (
	"context"
	"net/http"
)

// GroupsService groups the course and class (group) endpoints.
type GroupsService struct {
	client *Client
}

// CourseListParams controls GET /v1/company/courses.
type CourseListParams struct {
	IncludeClasses bool `url:"includeClasses"`
	IncludeImages  bool `url:"includeImages"`
}

// ClassListParams controls GET /v1/company/classes.
type ClassListParams struct {
	IncludeImages     bool `url:"includeImages"`
	IncludeAttributes bool `url:"includeAttributes"`
}

// Courses lists courses.
func (s *GroupsService) Courses(ctx context.Context, params *CourseListParams) (*Response, error) {
	if params == nil {
		params = &CourseListParams{}
	}
	q, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/courses", q, nil)
}

// Classes lists groups.
func (s *GroupsService) Classes(ctx context.Context, params *ClassListParams) (*Response, error) {
	if params == nil {
		params = &ClassListParams{}
	}
	q, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/classes", q, nil)
}
