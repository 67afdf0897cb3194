package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(nil, nil, nil, nil, nil, nil, nil)
	h.SetupRoutes(router)
	return router
}

func TestListOrderStatusesServesAllStatusesWithoutAuth(t *testing.T) {
	router := newStatusRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orderStatuses", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []models.OrderStatusDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, len(models.OrderStatusDetails))

	for i, status := range statuses {
		assert.Equal(t, i+1, status.ID)
	}
	assert.Equal(t, "INITIALIZED", statuses[0].Name)
	assert.Equal(t, "CANCELED", statuses[3].Name)
}

func TestGetOrderStatusByID(t *testing.T) {
	router := newStatusRouter()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantName string
	}{
		{name: "known status", path: "/api/orderStatuses/2", wantCode: http.StatusOK, wantName: "PROCESSING"},
		{name: "unknown status", path: "/api/orderStatuses/9", wantCode: http.StatusNotFound},
		{name: "non numeric id", path: "/api/orderStatuses/abc", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantName != "" {
				var status models.OrderStatusDetail
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
				assert.Equal(t, tt.wantName, status.Name)
			}
		})
	}
}
