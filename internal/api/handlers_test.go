package api_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/streaks/internal/api"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/internal/service"
	"github.com/limbo/streaks/internal/service/mocks"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
	jwtservice "github.com/limbo/streaks/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uid      = uuid.New()
	habitID  = uuid.New()
	testUser = &entity.User{ID: uid, Email: "tester@example.com", Name: "tester"}
)

type testEnv struct {
	users  *mocks.MockUserServiceI
	habits *mocks.MockHabitsServiceI
	checks *mocks.MockHabitChecksServiceI
	jwt    *jwtservice.JWTService
	server *api.Server
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		users:  mocks.NewMockUserServiceI(ctrl),
		habits: mocks.NewMockHabitsServiceI(ctrl),
		checks: mocks.NewMockHabitChecksServiceI(ctrl),
		jwt:    jwtservice.New("test_secret", time.Hour),
	}
	env.server = api.New(&api.ServicesList{
		UserService:        env.users,
		HabitsService:      env.habits,
		HabitChecksService: env.checks,
		JwtService:         env.jwt,
	})
	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	return rr
}

// authorized builds a request carrying a valid token of testUser and expects the middleware lookup.
func (env *testEnv) authorized(t *testing.T, method, path string, body []byte) *http.Request {
	token, err := env.jwt.GenerateToken(testUser)
	require.NoError(t, err)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	env.users.EXPECT().GetByID(gomock.Any(), uid).Return(testUser, nil)
	return req
}

func mustMarshal(t *testing.T, v any) []byte {
	data, err := sonic.ConfigDefault.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	body := mustMarshal(t, api.RegisterRequest{
		Email:    "tester@example.com",
		Name:     "tester",
		Password: "test_password",
	})
	testCases := []struct {
		Desc         string
		Body         []byte
		Status       int
		MockPrepFunc func()
	}{
		{
			Desc:   "registered",
			Body:   body,
			Status: http.StatusCreated,
			MockPrepFunc: func() {
				env.users.EXPECT().Register(gomock.Any(), &service.RegisterRequest{
					Email:    "tester@example.com",
					Name:     "tester",
					Password: "test_password",
				}).Return(testUser, nil)
			},
		},
		{
			Desc:   "existed user",
			Body:   body,
			Status: http.StatusConflict,
			MockPrepFunc: func() {
				env.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errorvalues.ErrUserExists)
			},
		},
		{
			Desc:   "validation failed",
			Body:   body,
			Status: http.StatusBadRequest,
			MockPrepFunc: func() {
				env.users.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: Email failed on 'email'", errorvalues.ErrInvalidUser))
			},
		},
		{
			Desc:   "service error",
			Body:   body,
			Status: http.StatusInternalServerError,
			MockPrepFunc: func() {
				env.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errors.New("mocked error"))
			},
		},
		{
			Desc:   "invalid body",
			Body:   nil,
			Status: http.StatusBadRequest,
			MockPrepFunc: func() {
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(tc.Body))
			rr := env.do(req)
			assert.Equal(t, tc.Status, rr.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	body := mustMarshal(t, api.LoginRequest{Email: "tester@example.com", Password: "test_password"})

	t.Run("logged in", func(t *testing.T) {
		env.users.EXPECT().Login(gomock.Any(), "tester@example.com", "test_password").Return(testUser, nil)
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			UID   string `json:"uid"`
			Token string `json:"token"`
		}
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, uid.String(), resp.UID)
		claims, err := env.jwt.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, uid.String(), claims.UserID)
		assert.Equal(t, testUser.Email, claims.Email)
	})
	t.Run("unexist user", func(t *testing.T) {
		env.users.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errorvalues.ErrUserNotFound)
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
	t.Run("wrong password", func(t *testing.T) {
		env.users.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errorvalues.ErrWrongCredentials)
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)
	expired := jwtservice.New("test_secret", time.Nanosecond)
	expiredToken, err := expired.GenerateToken(testUser)
	require.NoError(t, err)
	foreignToken, err := jwtservice.New("other_secret", time.Hour).GenerateToken(testUser)
	require.NoError(t, err)
	validToken, err := env.jwt.GenerateToken(testUser)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	testCases := []struct {
		Desc         string
		Header       string
		Status       int
		MockPrepFunc func()
	}{
		{
			Desc:   "no header",
			Header: "",
			Status: http.StatusUnauthorized,
			MockPrepFunc: func() {
			},
		},
		{
			Desc:   "not a bearer",
			Header: "Basic dGVzdDp0ZXN0",
			Status: http.StatusUnauthorized,
			MockPrepFunc: func() {
			},
		},
		{
			Desc:   "expired token",
			Header: "Bearer " + expiredToken,
			Status: http.StatusUnauthorized,
			MockPrepFunc: func() {
			},
		},
		{
			Desc:   "token signed by another key",
			Header: "Bearer " + foreignToken,
			Status: http.StatusUnauthorized,
			MockPrepFunc: func() {
			},
		},
		{
			Desc:   "deleted user",
			Header: "Bearer " + validToken,
			Status: http.StatusUnauthorized,
			MockPrepFunc: func() {
				env.users.EXPECT().GetByID(gomock.Any(), uid).Return(nil, errorvalues.ErrUserNotFound)
			},
		},
		{
			Desc:   "authorized",
			Header: "Bearer " + validToken,
			Status: http.StatusOK,
			MockPrepFunc: func() {
				env.users.EXPECT().GetByID(gomock.Any(), uid).Return(testUser, nil)
				env.habits.EXPECT().GetUserStats(gomock.Any(), uid).Return(&entity.UserStats{}, nil)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
			if tc.Header != "" {
				req.Header.Set("Authorization", tc.Header)
			}
			rr := env.do(req)
			assert.Equal(t, tc.Status, rr.Code)
		})
	}
}

func TestCheckIn(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/habits/" + habitID.String() + "/check-in"
	day := calendar.Date(2025, time.April, 19)
	view := &entity.HabitView{
		Habit:          entity.Habit{ID: habitID, UserID: uid, Name: "Meditate"},
		CompletedToday: false,
		CurrentStreak:  1,
		LongestStreak:  1,
		CompletedDates: []calendar.Day{day},
	}
	testCases := []struct {
		Desc         string
		Path         string
		Body         []byte
		Status       int
		MockPrepFunc func()
	}{
		{
			Desc:   "today when body is empty",
			Path:   path,
			Body:   nil,
			Status: http.StatusOK,
			MockPrepFunc: func() {
				env.checks.EXPECT().ToggleCheck(gomock.Any(), habitID, uid, nil).Return(view, nil)
			},
		},
		{
			Desc:   "given date",
			Path:   path,
			Body:   []byte(`{"date":"2025-04-19"}`),
			Status: http.StatusOK,
			MockPrepFunc: func() {
				env.checks.EXPECT().ToggleCheck(gomock.Any(), habitID, uid, &day).Return(view, nil)
			},
		},
		{
			Desc:   "malformed date",
			Path:   path,
			Body:   []byte(`{"date":"19.04.2025"}`),
			Status: http.StatusBadRequest,
			MockPrepFunc: func() {
			},
		},
		{
			Desc:   "future date",
			Path:   path,
			Body:   []byte(`{"date":"2999-01-01"}`),
			Status: http.StatusBadRequest,
			MockPrepFunc: func() {
				env.checks.EXPECT().ToggleCheck(gomock.Any(), habitID, uid, gomock.Any()).Return(nil, errorvalues.ErrInvalidDate)
			},
		},
		{
			Desc:   "habit of another user",
			Path:   path,
			Status: http.StatusNotFound,
			MockPrepFunc: func() {
				env.checks.EXPECT().ToggleCheck(gomock.Any(), habitID, uid, nil).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
		{
			Desc:   "service error",
			Path:   path,
			Status: http.StatusInternalServerError,
			MockPrepFunc: func() {
				env.checks.EXPECT().ToggleCheck(gomock.Any(), habitID, uid, nil).Return(nil, errors.New("mocked error"))
			},
		},
		{
			Desc:   "invalid habit id",
			Path:   "/api/v1/habits/not-a-uuid/check-in",
			Status: http.StatusBadRequest,
			MockPrepFunc: func() {
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := env.do(env.authorized(t, http.MethodPost, tc.Path, tc.Body))
			assert.Equal(t, tc.Status, rr.Code)
			if tc.Status != http.StatusOK {
				return
			}
			var resp entity.HabitView
			require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, habitID, resp.ID)
			assert.Equal(t, []calendar.Day{day}, resp.CompletedDates)
			assert.Equal(t, 1, resp.CurrentStreak)
		})
	}
}

func TestGetRecords(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/v1/habits/" + habitID.String() + "/records"
	from := calendar.Date(2025, time.April, 1)
	to := calendar.Date(2025, time.April, 30)

	t.Run("bounded range", func(t *testing.T) {
		env.checks.EXPECT().GetHabitChecks(gomock.Any(), habitID, uid, &from, &to).Return([]entity.HabitCheck{
			{ID: uuid.New(), HabitID: habitID, CheckDate: calendar.Date(2025, time.April, 2)},
		}, nil)
		rr := env.do(env.authorized(t, http.MethodGet, base+"?from=2025-04-01&to=2025-04-30", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.GetRecordsResponse
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, habitID.String(), resp.HabitID)
		require.Len(t, resp.Records, 1)
		assert.Equal(t, "2025-04-02", resp.Records[0].CheckDate.String())
	})
	t.Run("open range", func(t *testing.T) {
		env.checks.EXPECT().GetHabitChecks(gomock.Any(), habitID, uid, nil, nil).Return([]entity.HabitCheck{}, nil)
		rr := env.do(env.authorized(t, http.MethodGet, base, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("malformed from", func(t *testing.T) {
		rr := env.do(env.authorized(t, http.MethodGet, base+"?from=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("reversed range", func(t *testing.T) {
		env.checks.EXPECT().GetHabitChecks(gomock.Any(), habitID, uid, gomock.Any(), gomock.Any()).
			Return(nil, errorvalues.ErrInvalidDate)
		rr := env.do(env.authorized(t, http.MethodGet, base+"?from=2025-04-30&to=2025-04-01", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHabitsCRUD(t *testing.T) {
	env := newTestEnv(t)
	itemPath := "/api/v1/habits/" + habitID.String()
	view := &entity.HabitView{
		Habit:          entity.Habit{ID: habitID, UserID: uid, Name: "Meditate", Category: entity.DefaultCategory, Frequency: entity.FrequencyDaily},
		CompletedDates: []calendar.Day{},
	}

	t.Run("create", func(t *testing.T) {
		env.habits.EXPECT().CreateHabit(gomock.Any(), uid, service.CreateHabitRequest{Name: "Meditate"}).Return(view, nil)
		rr := env.do(env.authorized(t, http.MethodPost, "/api/v1/habits", []byte(`{"name":"Meditate"}`)))
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"completed_dates":[]`)
	})
	t.Run("create invalid", func(t *testing.T) {
		env.habits.EXPECT().CreateHabit(gomock.Any(), uid, gomock.Any()).Return(nil, errorvalues.ErrInvalidHabit)
		rr := env.do(env.authorized(t, http.MethodPost, "/api/v1/habits", []byte(`{"name":""}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("list", func(t *testing.T) {
		env.habits.EXPECT().GetUserHabits(gomock.Any(), uid).Return([]*entity.HabitView{view}, nil)
		rr := env.do(env.authorized(t, http.MethodGet, "/api/v1/habits", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.GetHabitsResponse
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, uid.String(), resp.UserID)
		assert.Len(t, resp.Habits, 1)
	})
	t.Run("get", func(t *testing.T) {
		env.habits.EXPECT().GetHabit(gomock.Any(), habitID, uid).Return(view, nil)
		rr := env.do(env.authorized(t, http.MethodGet, itemPath, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("get foreign", func(t *testing.T) {
		env.habits.EXPECT().GetHabit(gomock.Any(), habitID, uid).Return(nil, errorvalues.ErrHabitNotFound)
		rr := env.do(env.authorized(t, http.MethodGet, itemPath, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
	t.Run("update", func(t *testing.T) {
		name := "Meditate twice"
		env.habits.EXPECT().UpdateHabit(gomock.Any(), habitID, uid, service.UpdateHabitRequest{Name: &name}).Return(view, nil)
		rr := env.do(env.authorized(t, http.MethodPatch, itemPath, []byte(`{"name":"Meditate twice"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("delete", func(t *testing.T) {
		env.habits.EXPECT().DeleteHabit(gomock.Any(), habitID, uid).Return(nil)
		rr := env.do(env.authorized(t, http.MethodDelete, itemPath, nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	env.habits.EXPECT().GetUserStats(gomock.Any(), uid).Return(&entity.UserStats{
		TotalHabits:          2,
		CompletedToday:       1,
		WeeklyCompletionRate: 0.5,
	}, nil)
	rr := env.do(env.authorized(t, http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp entity.UserStats
	require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalHabits)
	assert.Equal(t, 1, resp.CompletedToday)
	assert.InDelta(t, 0.5, resp.WeeklyCompletionRate, 1e-9)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	t.Run("deleted", func(t *testing.T) {
		env.users.EXPECT().DeleteAccount(gomock.Any(), uid, "test_password").Return(nil)
		rr := env.do(env.authorized(t, http.MethodDelete, "/api/v1/auth/account", []byte(`{"password":"test_password"}`)))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
	t.Run("wrong password", func(t *testing.T) {
		env.users.EXPECT().DeleteAccount(gomock.Any(), uid, "nope").Return(errorvalues.ErrWrongCredentials)
		rr := env.do(env.authorized(t, http.MethodDelete, "/api/v1/auth/account", []byte(`{"password":"nope"}`)))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "streaks_http_requests_total"))
}
