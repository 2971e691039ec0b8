package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		page, limit    int
		expectService  bool
		expectedStatus int
	}{
		{name: "Default paging", page: 1, limit: 10, expectService: true, expectedStatus: http.StatusOK},
		{name: "Custom paging", query: "?page=3&limit=25", page: 3, limit: 25, expectService: true, expectedStatus: http.StatusOK},
		{name: "Invalid page", query: "?page=x", expectedStatus: http.StatusBadRequest},
		{name: "Invalid limit", query: "?limit=x", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewOrderHandler(svc, zerolog.Nop())
			if tt.expectService {
				svc.On("List", mock.Anything, testUser, tt.page, tt.limit).Return(&model.OrderList{
					Orders:     []model.Order{},
					Pagination: model.NewPagination(tt.page, tt.limit, 0),
				}, nil)
			}

			w := httptest.NewRecorder()
			h.List(w, asUser(httptest.NewRequest(http.MethodGet, "/api/orders"+tt.query, nil), testUser))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				assert.Contains(t, string(decodeEnvelope(t, w).Data), `"pagination"`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_GetByID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		rawID          string
		mockReturn     *model.Order
		mockError      error
		expectService  bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Own order",
			rawID:          id.String(),
			mockReturn:     &model.Order{ID: id},
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Someone else's order",
			rawID:          id.String(),
			mockError:      model.ErrOrderNotFound,
			expectService:  true,
			expectedStatus: http.StatusNotFound,
			expectedError:  "Order not found",
		},
		{
			name:           "Malformed ID",
			rawID:          "12345",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid order ID format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			h := NewOrderHandler(svc, zerolog.Nop())
			if tt.expectService {
				svc.On("GetByID", mock.Anything, testUser, id).Return(tt.mockReturn, tt.mockError)
			}

			r := withURLParams(httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.rawID, nil), "id", tt.rawID)
			w := httptest.NewRecorder()
			h.GetByID(w, asUser(r, testUser))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, decodeEnvelope(t, w).Error)
			svc.AssertExpectations(t)
		})
	}
}
