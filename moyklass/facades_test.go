package moyklass

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersService(t *testing.T) {
	ctx := context.Background()

	t.Run("list defaults", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Users.List(ctx, nil)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/v1/company/users", req.URL.Path)
		assert.Equal(t, url.Values{
			"offset":         {"0"},
			"limit":          {"100"},
			"sort":           {"id"},
			"sortDirection":  {"asc"},
			"includePayLink": {"false"},
		}, req.URL.Query())
	})

	t.Run("list with filters", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Users.List(ctx, &UserListParams{
			CreatedAt:      []string{"2024-01-01", "2024-02-01"},
			Email:          strPtr("anna@example.com"),
			Page:           Page{Offset: 200, Limit: 50},
			Sort:           UserSortCreatedAt,
			SortDirection:  SortDesc,
			IncludePayLink: true,
		})
		require.NoError(t, err)

		req, _ := api.last()
		q := req.URL.Query()
		assert.Equal(t, []string{"2024-01-01", "2024-02-01"}, q["createdAt"])
		assert.Equal(t, "anna@example.com", q.Get("email"))
		assert.Equal(t, "200", q.Get("offset"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "createdAt", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("sortDirection"))
		assert.Equal(t, "true", q.Get("includePayLink"))
		assert.NotContains(t, q, "phone")
	})

	t.Run("get", func(t *testing.T) {
		api, client := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":42,"name":"Anna"}`))
		})

		resp, err := client.Users.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Anna", resp.Get("name").String())

		req, _ := api.last()
		assert.Equal(t, "/v1/company/users/42", req.URL.Path)
		assert.Empty(t, req.URL.RawQuery)
	})

	t.Run("create omits absent fields", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Users.Create(ctx, &UserParams{
			Name:    "Anna",
			Phone:   strPtr("79990000000"),
			Filials: []int{1},
		})
		require.NoError(t, err)

		req, body := api.last()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/v1/company/users", req.URL.Path)
		assert.JSONEq(t, `{"name":"Anna","phone":"79990000000","filials":[1]}`, string(body))
	})

	t.Run("update", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Users.Update(ctx, 7, &UserParams{
			Name:       "Anna",
			Attributes: []UserAttributeValue{{AttributeID: 3, Value: "vip"}},
		})
		require.NoError(t, err)

		req, body := api.last()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/v1/company/users/7", req.URL.Path)
		assert.JSONEq(t, `{"name":"Anna","attributes":[{"attributeId":3,"value":"vip"}]}`, string(body))
	})

	t.Run("nil params rejected", func(t *testing.T) {
		_, client := newFakeAPI(t, nil)

		_, err := client.Users.Create(ctx, nil)
		assert.Error(t, err)
		_, err = client.Users.Update(ctx, 1, nil)
		assert.Error(t, err)
	})

	t.Run("attributes", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Users.Attributes(ctx)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/userAttributes", req.URL.Path)
	})
}

func TestPaymentsService(t *testing.T) {
	ctx := context.Background()

	t.Run("list defaults", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Payments.List(ctx, nil)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/payments", req.URL.Path)
		assert.Equal(t, url.Values{
			"includeUserSubscriptions": {"false"},
			"appendInvoices":           {"false"},
			"offset":                   {"0"},
			"limit":                    {"100"},
		}, req.URL.Query())
	})

	t.Run("list filters optype", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Payments.List(ctx, &PaymentListParams{
			Optype: PaymentOptypes{PaymentOptypeIncome, "bogus", PaymentOptypeRefund},
			UserID: intPtr(5),
		})
		require.NoError(t, err)

		req, _ := api.last()
		q := req.URL.Query()
		assert.Equal(t, []string{"income", "refund"}, q["optype"])
		assert.Equal(t, "5", q.Get("userId"))
	})

	t.Run("types", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Payments.Types(ctx)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/paymentTypes", req.URL.Path)
	})

	t.Run("create drops unknown optype", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		params := &PaymentParams{UserID: 5, Date: "2024-03-01", Summa: 1500, Optype: "cash"}
		_, err := client.Payments.Create(ctx, params)
		require.NoError(t, err)

		_, body := api.last()
		assert.JSONEq(t, `{"userId":5,"date":"2024-03-01","summa":1500}`, string(body))
		assert.Equal(t, PaymentOptype("cash"), params.Optype, "caller params are not modified")
	})

	t.Run("create with optype", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Payments.Create(ctx, &PaymentParams{
			UserID:  5,
			Date:    "2024-03-01",
			Summa:   200.5,
			Optype:  PaymentOptypeRefund,
			Comment: strPtr("returned"),
		})
		require.NoError(t, err)

		_, body := api.last()
		assert.JSONEq(t, `{"userId":5,"date":"2024-03-01","summa":200.5,"optype":"refund","comment":"returned"}`, string(body))
	})
}

func TestLessonsService(t *testing.T) {
	api, client := newFakeAPI(t, nil)

	_, err := client.Lessons.List(context.Background(), &LessonListParams{
		Date:           []string{"2024-04-01", "2024-04-30"},
		TeacherID:      []int{12},
		IncludeRecords: true,
		IncludeParams:  true,
	})
	require.NoError(t, err)

	req, _ := api.last()
	assert.Equal(t, "/v1/company/lessons", req.URL.Path)
	assert.Equal(t, url.Values{
		"date":                     {"2024-04-01", "2024-04-30"},
		"teacherId":                {"12"},
		"offset":                   {"0"},
		"limit":                    {"100"},
		"includeRecords":           {"true"},
		"includeMarks":             {"false"},
		"includeTasks":             {"false"},
		"includeTaskAnswers":       {"false"},
		"includeUserSubscriptions": {"false"},
		"includeParams":            {"true"},
	}, req.URL.Query())
}

func TestGroupsService(t *testing.T) {
	ctx := context.Background()

	t.Run("courses", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Groups.Courses(ctx, &CourseListParams{IncludeClasses: true})
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/courses", req.URL.Path)
		assert.Equal(t, url.Values{
			"includeClasses": {"true"},
			"includeImages":  {"false"},
		}, req.URL.Query())
	})

	t.Run("classes defaults", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Groups.Classes(ctx, nil)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/classes", req.URL.Path)
		assert.Equal(t, url.Values{
			"includeImages":     {"false"},
			"includeAttributes": {"false"},
		}, req.URL.Query())
	})
}

func TestTasksService(t *testing.T) {
	ctx := context.Background()

	t.Run("native booleans always present", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Tasks.Create(ctx, &TaskParams{
			Body:      "Call back",
			BeginDate: "2024-05-01T10:00:00",
			EndDate:   "2024-05-01T11:00:00",
			UserID:    intPtr(42),
		})
		require.NoError(t, err)

		req, body := api.last()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/v1/company/tasks", req.URL.Path)
		assert.JSONEq(t, `{
			"body": "Call back",
			"beginDate": "2024-05-01T10:00:00",
			"endDate": "2024-05-01T11:00:00",
			"isAllDay": false,
			"isComplete": false,
			"userId": 42
		}`, string(body))
	})

	t.Run("nil params rejected", func(t *testing.T) {
		_, client := newFakeAPI(t, nil)

		_, err := client.Tasks.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestSubscriptionsService(t *testing.T) {
	ctx := context.Background()

	t.Run("catalogue", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.List(ctx, nil)
		require.NoError(t, err)
		req, _ := api.last()
		assert.Equal(t, "/v1/company/subscriptions", req.URL.Path)
		assert.Equal(t, url.Values{"offset": {"0"}, "limit": {"100"}}, req.URL.Query())

		_, err = client.Subscriptions.Get(ctx, 9)
		require.NoError(t, err)
		req, _ = api.last()
		assert.Equal(t, "/v1/company/subscriptions/9", req.URL.Path)
	})

	t.Run("create", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.Create(ctx, &SubscriptionParams{
			Name:       "Monthly",
			Price:      4000,
			VisitCount: intPtr(8),
		})
		require.NoError(t, err)

		_, body := api.last()
		assert.JSONEq(t, `{"name":"Monthly","price":4000,"visitCount":8}`, string(body))
	})

	t.Run("groupings", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.Groupings(ctx, nil)
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/subscriptionGroupings", req.URL.Path)
		assert.Equal(t, url.Values{"includeSubscriptions": {"false"}}, req.URL.Query())
	})

	t.Run("user subscriptions", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.ListUserSubscriptions(ctx, &UserSubscriptionListParams{
			UserID:   intPtr(42),
			StatusID: SubscriptionStatuses{SubscriptionStatusActive, SubscriptionStatusFrozen},
		})
		require.NoError(t, err)

		req, _ := api.last()
		assert.Equal(t, "/v1/company/userSubscriptions", req.URL.Path)
		assert.Equal(t, url.Values{
			"userId":         {"42"},
			"statusId":       {"2", "3"},
			"offset":         {"0"},
			"limit":          {"100"},
			"includeRecords": {"false"},
		}, req.URL.Query())

		_, err = client.Subscriptions.GetUserSubscription(ctx, 77)
		require.NoError(t, err)
		req, _ = api.last()
		assert.Equal(t, "/v1/company/userSubscriptions/77", req.URL.Path)
	})

	t.Run("sell", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.CreateUserSubscription(ctx, &UserSubscriptionParams{
			UserID:         42,
			SubscriptionID: 9,
			SellDate:       "2024-06-01",
			Price:          floatPtr(3500),
		})
		require.NoError(t, err)

		_, body := api.last()
		assert.JSONEq(t, `{"userId":42,"subscriptionId":9,"sellDate":"2024-06-01","price":3500}`, string(body))
	})

	t.Run("set status", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.SetUserSubscriptionStatus(ctx, 77, &UserSubscriptionStatusParams{
			StatusID:   SubscriptionStatusFrozen,
			FreezeFrom: strPtr("2024-06-10"),
			FreezeTo:   strPtr("2024-06-20"),
		})
		require.NoError(t, err)

		req, body := api.last()
		assert.Equal(t, "/v1/company/userSubscriptions/77/status", req.URL.Path)
		assert.JSONEq(t, `{"statusId":3,"freezeFrom":"2024-06-10","freezeTo":"2024-06-20"}`, string(body))
	})

	t.Run("set unknown status", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		_, err := client.Subscriptions.SetUserSubscriptionStatus(ctx, 77, &UserSubscriptionStatusParams{StatusID: 12})
		require.NoError(t, err)

		_, body := api.last()
		assert.JSONEq(t, `{}`, string(body))
	})
}
