package moyklass

import (
	"context"
	"net/http"
)

// LessonsService groups the lesson endpoints.
type LessonsService struct {
	client *Client
}

// LessonListParams filters GET /v1/company/lessons. The Include* flags are
// always sent.
type LessonListParams struct {
	Date      []string `url:"date,omitempty"`
	LessonID  []int    `url:"lessonId,omitempty"`
	RoomID    []int    `url:"roomId,omitempty"`
	FilialID  []int    `url:"filialId,omitempty"`
	ClassID   []int    `url:"classId,omitempty"`
	TeacherID []int    `url:"teacherId,omitempty"`
	StatusID  *int     `url:"statusId,omitempty"`
	UserID    *int     `url:"userId,omitempty"`
	Page

	IncludeRecords           bool `url:"includeRecords"`
	IncludeMarks             bool `url:"includeMarks"`
	IncludeTasks             bool `url:"includeTasks"`
	IncludeTaskAnswers       bool `url:"includeTaskAnswers"`
	IncludeUserSubscriptions bool `url:"includeUserSubscriptions"`
	IncludeParams            bool `url:"includeParams"`
}

// List retrieves lessons matching params. A nil params lists with defaults.
func (s *LessonsService) List(ctx context.Context, params *LessonListParams) (*Response, error) {
	p := LessonListParams{}
	if params != nil {
		p = *params
	}
	p.Page = p.Page.withDefaults()

	q, err := encodeQuery(&p)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/lessons", q, nil)
}
