package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
	"github.com/invoicelab/invoicing_backend/internal/handlers"
	"github.com/invoicelab/invoicing_backend/internal/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
	userID             string
}

func (suite *PaymentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "invoicing-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *PaymentHandlerTestSuite) authedRequest(method, url string, body any) *http.Request {
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockPaymentService = new(MockPaymentService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	services := &portssvc.ServiceContainer{
		Client:  new(MockClientService),
		Invoice: new(MockInvoiceService),
		Payment: suite.mockPaymentService,
		User:    new(MockUserService),
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *PaymentHandlerTestSuite) samplePayment() *domain.Payment {
	now := time.Now()
	return &domain.Payment{
		PaymentID:   uuid.NewString(),
		InvoiceID:   uuid.NewString(),
		Amount:      decimal.NewFromInt(150),
		Method:      domain.PaymentMethodBankTransfer,
		Status:      domain.PaymentStatusCompleted,
		ReceivedAt:  now,
		Reference:   "TXN-1001",
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Success() {
	expected := suite.samplePayment()

	suite.mockPaymentService.On("RecordPayment",
		mock.Anything,
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.InvoiceID == expected.InvoiceID && req.Amount.Equal(expected.Amount)
		}),
	).Return(expected, nil).Once()

	body := dto.RecordPaymentRequest{
		InvoiceID: expected.InvoiceID,
		Amount:    expected.Amount,
		Method:    "BANK_TRANSFER",
		Status:    "COMPLETED",
		Reference: "TXN-1001",
	}
	req := suite.authedRequest(http.MethodPost, "/api/v1/payments", body)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.PaymentID, resp.PaymentID)
	suite.Equal("COMPLETED", resp.Status)

	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_OverpaymentMapsTo400() {
	suite.mockPaymentService.On("RecordPayment", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("record payment: %w", domain.ErrOverpayment)).Once()

	body := dto.RecordPaymentRequest{
		InvoiceID: uuid.NewString(),
		Amount:    decimal.NewFromInt(10000),
		Method:    "CASH",
	}
	req := suite.authedRequest(http.MethodPost, "/api/v1/payments", body)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_DuplicateReferenceMapsTo409() {
	suite.mockPaymentService.On("RecordPayment", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: payment reference TXN-1001", apperrors.ErrDuplicate)).Once()

	body := dto.RecordPaymentRequest{
		InvoiceID: uuid.NewString(),
		Amount:    decimal.NewFromInt(50),
		Method:    "CASH",
		Reference: "TXN-1001",
	}
	req := suite.authedRequest(http.MethodPost, "/api/v1/payments", body)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFoundMapsTo404() {
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID).
		Return(nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)).Once()

	req := suite.authedRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestUpdatePaymentStatus_RejectsUnknownStatus() {
	paymentID := uuid.NewString()
	body := dto.UpdatePaymentStatusRequest{Status: "BOGUS"}
	req := suite.authedRequest(http.MethodPatch, "/api/v1/payments/"+paymentID+"/status", body)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "UpdatePaymentStatus")
}

func (suite *PaymentHandlerTestSuite) TestUpdatePaymentStatus_Success() {
	expected := suite.samplePayment()
	expected.Status = domain.PaymentStatusReversed

	suite.mockPaymentService.On("UpdatePaymentStatus", mock.Anything, expected.PaymentID, domain.PaymentStatusReversed).
		Return(expected, nil).Once()

	body := dto.UpdatePaymentStatusRequest{Status: "REVERSED"}
	req := suite.authedRequest(http.MethodPatch, "/api/v1/payments/"+expected.PaymentID+"/status", body)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("REVERSED", resp.Status)

	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestDeletePayment_ReversedMapsTo400() {
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("DeletePayment", mock.Anything, paymentID).
		Return(fmt.Errorf("%w: reversed payments cannot be deleted", apperrors.ErrValidation)).Once()

	req := suite.authedRequest(http.MethodDelete, "/api/v1/payments/"+paymentID, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
