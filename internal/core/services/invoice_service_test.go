package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/core/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockClientRepo  *MockClientRepository
	mockUserRepo    *MockUserRepository
	mockSequence    *MockInvoiceNumberSequence
	publisher       *RecordingPublisher
	service         portssvc.InvoiceSvcFacade

	clientID string
	userID   string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSequence = new(MockInvoiceNumberSequence)
	suite.publisher = new(RecordingPublisher)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockClientRepo,
		suite.mockUserRepo,
		suite.mockSequence,
		suite.publisher,
	)

	suite.clientID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) validCreateRequest() dto.CreateInvoiceRequest {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	taxRate := decimal.NewFromInt(10)
	return dto.CreateInvoiceRequest{
		ClientID:  suite.clientID,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 1, 0),
		TaxRate:   &taxRate,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{Description: "Support retainer", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockClientRepo.On("ExistsByID", ctx, suite.clientID).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(&domain.User{UserID: suite.userID}, nil).Once()
	suite.mockSequence.On("NextValue", ctx).Return(int64(7), nil).Once()
	suite.mockInvoiceRepo.On("ExistsByNumber", ctx, "INV-2026-0007").Return(false, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal("INV-2026-0007", invoice.Number)
	suite.Equal(domain.InvoiceStatusDraft, invoice.Status)
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal was %s", invoice.Subtotal)
	suite.True(invoice.TaxAmount.Equal(decimal.NewFromInt(25)), "tax was %s", invoice.TaxAmount)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(275)), "total was %s", invoice.Total)
	suite.True(invoice.Balance.Equal(invoice.Total))
	suite.Len(invoice.Items, 2)
	suite.Equal(invoice.InvoiceID, invoice.Items[0].InvoiceID)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockSequence.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_SkipsTakenNumbers() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockClientRepo.On("ExistsByID", ctx, suite.clientID).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(&domain.User{UserID: suite.userID}, nil).Once()
	suite.mockSequence.On("NextValue", ctx).Return(int64(7), nil).Once()
	suite.mockInvoiceRepo.On("ExistsByNumber", ctx, "INV-2026-0007").Return(true, nil).Once()
	suite.mockSequence.On("NextValue", ctx).Return(int64(8), nil).Once()
	suite.mockInvoiceRepo.On("ExistsByNumber", ctx, "INV-2026-0008").Return(false, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-2026-0008", invoice.Number)
	suite.mockSequence.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsDueBeforeIssue() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsUnknownClient() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockClientRepo.On("ExistsByID", ctx, suite.clientID).Return(false, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsInvalidInitialStatus() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Status = "NOT_A_STATUS"

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_HalfUpRounding() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	taxRate := decimal.NewFromInt(15)
	req.TaxRate = &taxRate
	req.Items = []dto.InvoiceItemRequest{
		{Description: "Oddly priced widget", Quantity: 1, UnitPrice: decimal.RequireFromString("10.33")},
	}

	suite.mockClientRepo.On("ExistsByID", ctx, suite.clientID).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(&domain.User{UserID: suite.userID}, nil).Once()
	suite.mockSequence.On("NextValue", ctx).Return(int64(1), nil).Once()
	suite.mockInvoiceRepo.On("ExistsByNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	// 10.33 * 15% = 1.5495, rounds half-up to 1.55
	suite.Equal("1.55", invoice.TaxAmount.StringFixed(2))
	suite.Equal("11.88", invoice.Total.StringFixed(2))
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ReplacesItemsAndRecomputes() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusSent)

	newItems := []dto.InvoiceItemRequest{
		{Description: "Bigger engagement", Quantity: 3, UnitPrice: decimal.NewFromInt(200)},
	}
	req := dto.UpdateInvoiceRequest{Items: &newItems}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, existing.InvoiceID, req)

	suite.Require().NoError(err)
	suite.Len(updated.Items, 1)
	suite.True(updated.Subtotal.Equal(decimal.NewFromInt(600)), "subtotal was %s", updated.Subtotal)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RejectsPaidAndCanceled() {
	ctx := context.Background()
	for _, status := range []domain.InvoiceStatus{domain.InvoiceStatusPaid, domain.InvoiceStatusCanceled} {
		existing := suite.storedInvoice(status)
		notes := "late edit"
		req := dto.UpdateInvoiceRequest{Notes: &notes}

		suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()

		_, err := suite.service.UpdateInvoice(ctx, existing.InvoiceID, req)

		suite.Require().Error(err, "status %s should reject updates", status)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RejectsTotalBelowAmountPaid() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusPartiallyPaid)
	existing.AmountPaid = decimal.NewFromInt(200)
	existing.RecalcBalance()

	newItems := []dto.InvoiceItemRequest{
		{Description: "Shrunk scope", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}
	req := dto.UpdateInvoiceRequest{Items: &newItems}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()

	_, err := suite.service.UpdateInvoice(ctx, existing.InvoiceID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_ValidTransitionPublishesEvent() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, existing.InvoiceID, domain.InvoiceStatusSent, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, existing.InvoiceID, domain.InvoiceStatusSent)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusSent, updated.Status)
	suite.Require().Len(suite.publisher.StatusEvents, 1)
	suite.Equal(domain.InvoiceStatusDraft, suite.publisher.StatusEvents[0].PreviousStatus)
	suite.Equal(domain.InvoiceStatusSent, suite.publisher.StatusEvents[0].NewStatus)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_RejectsInvalidTransition() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()

	_, err := suite.service.UpdateInvoiceStatus(ctx, existing.InvoiceID, domain.InvoiceStatusPaid)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.publisher.StatusEvents)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_SameStatusIsNoOp() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusSent)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, existing.InvoiceID, domain.InvoiceStatusSent)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusSent, updated.Status)
	suite.Empty(suite.publisher.StatusEvents)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NotFound() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetInvoiceByID(ctx, invoiceID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_Success() {
	ctx := context.Background()
	existing := suite.storedInvoice(domain.InvoiceStatusDraft)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("DeleteInvoice", ctx, existing.InvoiceID).Return(nil).Once()

	err := suite.service.DeleteInvoice(ctx, existing.InvoiceID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// storedInvoice builds a persisted-looking invoice with one 400.00 line item.
func (suite *InvoiceServiceTestSuite) storedInvoice(status domain.InvoiceStatus) *domain.Invoice {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Number:      fmt.Sprintf("INV-2026-%04d", 42),
		ClientID:    suite.clientID,
		IssueDate:   issue,
		DueDate:     issue.AddDate(0, 1, 0),
		Status:      status,
		CreatedByID: suite.userID,
	}
	item := domain.InvoiceLineItem{
		ItemID:      uuid.NewString(),
		InvoiceID:   inv.InvoiceID,
		Description: "Fixed fee",
		Quantity:    4,
		UnitPrice:   decimal.NewFromInt(100),
	}
	item.CalculateAmount()
	inv.Items = []domain.InvoiceLineItem{item}
	inv.RecalcTotals()
	return inv
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
