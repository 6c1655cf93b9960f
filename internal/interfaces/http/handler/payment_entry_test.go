package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	leasingapp "github.com/leaseledger/backend/internal/application/leasing"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEntryHandler(leaseRepo *MockLeaseRepository, entryRepo *MockPaymentEntryRepository) *PaymentEntryHandler {
	scope := leasingapp.NewNoOpTransactionScope(leaseRepo, entryRepo, new(MockAgentDrawRepository))
	entryService := leasingapp.NewPaymentEntryService(scope, zap.NewNop())
	return NewPaymentEntryHandler(entryService)
}

func TestPaymentEntryHandler_Create_Success(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	entryRepo := new(MockPaymentEntryRepository)
	handler := setupEntryHandler(leaseRepo, entryRepo)

	lease := createTestLease(uuid.New())
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.PaymentEntry")).Return(nil)
	leaseRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*leasing.Lease")).Return(nil)

	router := setupTestRouter()
	router.POST("/leases/:id/entries", handler.Create)

	reqBody := CreateEntryRequest{
		Type:   "payment",
		Amount: 500,
		Date:   "2024-06-15",
		Notes:  "Check #1042",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/leases/"+lease.ID.String()+"/entries", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "payment", data["payment_type"])
	assert.Equal(t, "500", data["amount"])

	leaseRepo.AssertExpectations(t)
	entryRepo.AssertExpectations(t)
}

func TestPaymentEntryHandler_Create_LeaseNotFound(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	entryRepo := new(MockPaymentEntryRepository)
	handler := setupEntryHandler(leaseRepo, entryRepo)

	missingID := uuid.New()
	leaseRepo.On("FindByIDForUpdate", mock.Anything, missingID).Return(nil, nil)

	router := setupTestRouter()
	router.POST("/leases/:id/entries", handler.Create)

	reqBody := CreateEntryRequest{
		Type:   "payment",
		Amount: 500,
		Date:   "2024-06-15",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/leases/"+missingID.String()+"/entries", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentEntryHandler_Create_InvalidType(t *testing.T) {
	handler := setupEntryHandler(new(MockLeaseRepository), new(MockPaymentEntryRepository))

	router := setupTestRouter()
	router.POST("/leases/:id/entries", handler.Create)

	body := []byte(`{"type":"refund","amount":500,"date":"2024-06-15"}`)
	req := httptest.NewRequest(http.MethodPost, "/leases/"+uuid.New().String()+"/entries", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentEntryHandler_List_Success(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	entryRepo := new(MockPaymentEntryRepository)
	handler := setupEntryHandler(leaseRepo, entryRepo)

	leaseID := uuid.New()
	entryRepo.On("FindByLease", mock.Anything, leaseID).Return([]leasing.PaymentEntry{}, nil)

	router := setupTestRouter()
	router.GET("/leases/:id/entries", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/leases/"+leaseID.String()+"/entries", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entryRepo.AssertExpectations(t)
}

func TestPaymentEntryHandler_Delete_Success(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	entryRepo := new(MockPaymentEntryRepository)
	handler := setupEntryHandler(leaseRepo, entryRepo)

	lease := createTestLease(uuid.New())

	// Build a real entry through the service so the fixture satisfies the
	// pipeline's derived fields
	scope := leasingapp.NewNoOpTransactionScope(leaseRepo, entryRepo, new(MockAgentDrawRepository))
	entryService := leasingapp.NewPaymentEntryService(scope, zap.NewNop())
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil).Once()
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.PaymentEntry")).Return(nil)
	leaseRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*leasing.Lease")).Return(nil)

	entry, err := entryService.CreateEntry(context.Background(), leasingapp.CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypePayment,
		Amount:  decimal.NewFromInt(500),
		Date:    lease.MoveInDate,
	})
	require.NoError(t, err)

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)
	entryRepo.On("Delete", mock.Anything, entry.ID).Return(nil)

	router := setupTestRouter()
	router.DELETE("/leases/:id/entries/:entryId", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/leases/"+lease.ID.String()+"/entries/"+entry.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPaymentEntryHandler_Update_NotFound(t *testing.T) {
	leaseRepo := new(MockLeaseRepository)
	entryRepo := new(MockPaymentEntryRepository)
	handler := setupEntryHandler(leaseRepo, entryRepo)

	missingID := uuid.New()
	entryRepo.On("FindByID", mock.Anything, missingID).Return(nil, nil)

	router := setupTestRouter()
	router.PUT("/leases/:id/entries/:entryId", handler.Update)

	reqBody := UpdateEntryRequest{
		Type:   "payment",
		Amount: 250,
		Date:   "2024-06-20",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/leases/"+uuid.New().String()+"/entries/"+missingID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
