package listLectures

import (
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lectureRegistrar/internal/http-server/handlers/lecture/listLectures/mocks"
	"lectureRegistrar/internal/lib/logger/handlers/slogdiscard"
	"lectureRegistrar/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type lecturesResponse struct {
	Success bool             `json:"success"`
	Data    []models.Lecture `json:"data"`
	Error   *string          `json:"error"`
}

func TestListLecturesHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testTime := time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC)
	testLectures := []models.Lecture{
		{
			ID:       1,
			Title:    "Go basics",
			Capacity: 30,
			Date:     testTime,
		},
		{
			ID:       2,
			Title:    "Concurrency",
			Capacity: 20,
			Date:     testTime.Add(24 * time.Hour),
		},
	}

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.LecturesGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Success with lectures",
			mockSetup: func(m *mocks.LecturesGetter) {
				m.On("ListLectures", mock.Anything).Return(testLectures, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp lecturesResponse
				err := json.Unmarshal([]byte(body), &resp)
				require.NoError(t, err)

				assert.True(t, resp.Success)
				assert.Nil(t, resp.Error)
				require.Len(t, resp.Data, 2)
				assert.Equal(t, int64(1), resp.Data[0].ID)
				assert.Equal(t, 30, resp.Data[0].Capacity)
				assert.True(t, testTime.Equal(resp.Data[0].Date))
				assert.Equal(t, int64(2), resp.Data[1].ID)
			},
		},
		{
			name: "Wire format",
			mockSetup: func(m *mocks.LecturesGetter) {
				m.On("ListLectures", mock.Anything).Return(testLectures[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"error":null,"data":[
				{"lectureId":1,"title":"Go basics","capacity":30,"date":"2024-12-25T18:00:00Z"}
			]}`,
		},
		{
			name: "Success with no lectures",
			mockSetup: func(m *mocks.LecturesGetter) {
				m.On("ListLectures", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":[],"error":null}`,
		},
		{
			name: "Internal server error",
			mockSetup: func(m *mocks.LecturesGetter) {
				m.On("ListLectures", mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"data":null,"error":"PersistenceFailure","message":"failed to get lectures"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewLecturesGetter(t)
			tc.mockSetup(mockGetter)

			handler := New(logger, mockGetter)

			req, err := http.NewRequest("GET", "/lectures", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestRepeatedCallsAreStable(t *testing.T) {
	t.Parallel()

	mockGetter := mocks.NewLecturesGetter(t)
	mockGetter.On("ListLectures", mock.Anything).Return([]models.Lecture{
		{ID: 3, Title: "a", Capacity: 30},
		{ID: 1, Title: "b", Capacity: 30},
	}, nil)

	handler := New(slogdiscard.NewDiscardLogger(), mockGetter)

	var bodies []string
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/lectures", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
	mockGetter.AssertNumberOfCalls(t, "ListLectures", 3)
}
