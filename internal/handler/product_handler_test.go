package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"planet-beauty/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	products := []model.Product{
		{ID: "P001", Name: "Hydrating Serum", Category: "skincare", Price: decimal.RequireFromString("24.00")},
		{ID: "P002", Name: "Matte Lipstick", Category: "makeup", Price: decimal.RequireFromString("12.50")},
	}

	tests := []struct {
		name           string
		query          string
		expectedFilter *model.ProductFilter
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success with defaults",
			expectedFilter: &model.ProductFilter{Limit: 20},
			mockReturn:     products,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Success with filters",
			query:          "?category=skincare&featured=true&limit=5&offset=10",
			expectedFilter: &model.ProductFilter{Category: "skincare", Featured: true, Limit: 5, Offset: 10},
			mockReturn:     products[:1],
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - invalid limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - invalid featured flag",
			query:          "?featured=maybe",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - service failure",
			expectedFilter: &model.ProductFilter{Limit: 20},
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, zerolog.Nop())

			if tt.expectedFilter != nil {
				svc.On("List", mock.Anything, *tt.expectedFilter).Return(tt.mockReturn, tt.mockError)
			}

			w := httptest.NewRecorder()
			h.List(w, httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, env.Success)
			if tt.expectedStatus == http.StatusOK {
				var got []model.Product
				require.NoError(t, json.Unmarshal(env.Data, &got))
				assert.Len(t, got, len(tt.mockReturn))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			id:             "P001",
			mockReturn:     &model.Product{ID: "P001", Name: "Hydrating Serum"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found",
			id:             "P999",
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, zerolog.Nop())
			svc.On("GetByID", mock.Anything, tt.id).Return(tt.mockReturn, tt.mockError)

			r := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()
			h.GetByID(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedError, env.Error)
			svc.AssertExpectations(t)
		})
	}
}
