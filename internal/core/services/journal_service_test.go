package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
	"github.com/munshibooks/munshi_backend/internal/core/services"
	"github.com/munshibooks/munshi_backend/internal/dto"
	"github.com/munshibooks/munshi_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalEntryRepository ---
type MockJournalEntryRepository struct {
	mock.Mock
}

var _ portsrepo.JournalEntryRepository = (*MockJournalEntryRepository)(nil)

func (m *MockJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error {
	args := m.Called(ctx, entry, replaceLines)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) ListEntries(ctx context.Context, companyID string, filter domain.EntryFilter, page pagination.Page) ([]domain.JournalEntry, int64, error) {
	args := m.Called(ctx, companyID, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalEntryRepository) FindEntriesInRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) ListLinesByAccount(ctx context.Context, companyID, accountID string, from, to *time.Time, page pagination.Page) ([]domain.JournalLine, int64, error) {
	args := m.Called(ctx, companyID, accountID, from, to, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalLine), args.Get(1).(int64), args.Error(2)
}

// --- Mock AccountDirectory ---
type MockAccountDirectory struct {
	mock.Mock
}

var _ portsrepo.AccountDirectory = (*MockAccountDirectory)(nil)

func (m *MockAccountDirectory) ResolveAccounts(ctx context.Context, companyID string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountDirectory) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	args := m.Called(ctx, companyID)
	return args.Bool(0), args.Error(1)
}

// --- Mock AuditPublisher ---
type MockAuditPublisher struct {
	mock.Mock
}

var _ portssvc.AuditPublisher = (*MockAuditPublisher)(nil)

func (m *MockAuditPublisher) Emit(event domain.AuditEvent) {
	m.Called(event)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalEntryRepository
	mockDirectory   *MockAccountDirectory
	mockAudit       *MockAuditPublisher
	service         portssvc.JournalSvcFacade
	companyID       string
	actorID         string
	cashAccount     domain.Account
	loanAccount     domain.Account
	salesAccount    domain.Account
	accountsMap     map[string]domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalEntryRepository)
	suite.mockDirectory = new(MockAccountDirectory)
	suite.mockAudit = new(MockAuditPublisher)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockDirectory, suite.mockAudit)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Cash",
		Type:      domain.Asset,
	}
	suite.loanAccount = domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Bank Loan",
		Type:      domain.Liability,
	}
	suite.salesAccount = domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Sales",
		Type:      domain.Revenue,
	}
	suite.accountsMap = map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.loanAccount.AccountID:  suite.loanAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   "2026-03-15",
		Description: "Loan disbursement",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Type: domain.Debit, Amount: decimal.NewFromInt(500)},
			{AccountID: suite.loanAccount.AccountID, Type: domain.Credit, Amount: decimal.NewFromInt(500)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.mockAudit.On("Emit", mock.AnythingOfType("domain.AuditEvent")).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(suite.companyID, entry.CompanyID)
	suite.Equal("Loan disbursement", entry.Description)
	suite.Equal("2026-03-15", entry.EntryDate.Format(dto.ISODate))
	suite.Require().Equal(&suite.actorID, entry.CreatedBy)
	suite.Require().Len(entry.Lines, 2)
	for _, line := range entry.Lines {
		suite.NotEmpty(line.LineID)
		suite.Equal(entry.EntryID, line.EntryID)
	}

	suite.mockDirectory.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_EmitsCreationAudit() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything).Return(nil).Once()

	var captured domain.AuditEvent
	suite.mockAudit.On("Emit", mock.AnythingOfType("domain.AuditEvent")).Run(func(args mock.Arguments) {
		captured = args.Get(0).(domain.AuditEvent)
	}).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionEntryCreated, captured.Action)
	suite.Equal(suite.companyID, captured.CompanyID)
	suite.Equal("accountant", captured.ActorLabel)
	suite.Equal(entry.EntryID, captured.Details["entryID"])
	suite.Equal(2, captured.Details["lineCount"])
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SystemActorWhenNoUser() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything).Return(nil).Once()

	var captured domain.AuditEvent
	suite.mockAudit.On("Emit", mock.AnythingOfType("domain.AuditEvent")).Run(func(args mock.Arguments) {
		captured = args.Get(0).(domain.AuditEvent)
	}).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, nil)

	suite.Require().NoError(err)
	suite.Nil(entry.CreatedBy)
	suite.Equal("system", captured.ActorLabel)
	suite.Nil(captured.ActorID)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedStrict() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Amount = decimal.NewFromInt(400)

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.True(errors.Is(err, services.ErrEntryUnbalanced))
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.mockAudit.AssertNotCalled(suite.T(), "Emit", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedWithinTolerance() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Amount = decimal.RequireFromString("500.005")

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Emit", mock.Anything).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedDraftMode() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Mode = dto.ModeDraft
	req.Lines[1].Amount = decimal.NewFromInt(123)

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Emit", mock.Anything).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].AccountID = uuid.NewString()

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrAccountUnknown))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NonPositiveAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Amount = decimal.NewFromInt(-500)

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrAmountNotPositive))
	suite.mockDirectory.AssertNotCalled(suite.T(), "ResolveAccounts", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleLineRejected() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoChartOfAccounts() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_RepositoryFailure() {
	ctx := context.Background()
	req := suite.balancedRequest()
	persistErr := apperrors.NewPersistenceError("insert journal entry", errors.New("connection reset"))

	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything).Return(persistErr).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrPersistence))
	suite.mockAudit.AssertNotCalled(suite.T(), "Emit", mock.Anything)
}

func (suite *JournalServiceTestSuite) existingEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   suite.companyID,
		EntryDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Original description",
		CreatedBy:   &suite.actorID,
		CreatedAt:   time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Type: domain.Debit, Amount: decimal.NewFromInt(500)},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.loanAccount.AccountID, Type: domain.Credit, Amount: decimal.NewFromInt(500)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_FieldsOnly() {
	ctx := context.Background()
	existing := suite.existingEntry()
	newDesc := "Corrected description"
	req := dto.UpdateEntryRequest{Description: &newDesc}

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()
	suite.mockJournalRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), false).Return(nil).Once()
	suite.mockAudit.On("Emit", mock.AnythingOfType("domain.AuditEvent")).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.companyID, existing.EntryID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("Corrected description", updated.Description)
	suite.Equal(existing.EntryID, updated.EntryID)
	suite.Equal(existing.CreatedAt, updated.CreatedAt)
	suite.mockDirectory.AssertNotCalled(suite.T(), "ResolveAccounts", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_ReplacesLines() {
	ctx := context.Background()
	existing := suite.existingEntry()
	newLines := []dto.EntryLineRequest{
		{AccountID: suite.cashAccount.AccountID, Type: domain.Debit, Amount: decimal.NewFromInt(750)},
		{AccountID: suite.salesAccount.AccountID, Type: domain.Credit, Amount: decimal.NewFromInt(750)},
	}
	req := dto.UpdateEntryRequest{Lines: &newLines}

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()
	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()
	suite.mockJournalRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), true).Return(nil).Once()
	suite.mockAudit.On("Emit", mock.AnythingOfType("domain.AuditEvent")).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.companyID, existing.EntryID, req, &suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(updated.Lines, 2)
	suite.Equal(suite.salesAccount.AccountID, updated.Lines[1].AccountID)
	for _, line := range updated.Lines {
		suite.NotEmpty(line.LineID)
		suite.Equal(existing.EntryID, line.EntryID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_UnbalancedReplacementRejected() {
	ctx := context.Background()
	existing := suite.existingEntry()
	newLines := []dto.EntryLineRequest{
		{AccountID: suite.cashAccount.AccountID, Type: domain.Debit, Amount: decimal.NewFromInt(750)},
		{AccountID: suite.salesAccount.AccountID, Type: domain.Credit, Amount: decimal.NewFromInt(100)},
	}
	req := dto.UpdateEntryRequest{Lines: &newLines}

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()
	suite.mockDirectory.On("ResolveAccounts", ctx, suite.companyID).Return(suite.accountsMap, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, existing.EntryID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrEntryUnbalanced))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_OtherTenantLooksMissing() {
	ctx := context.Background()
	existing := suite.existingEntry()
	existing.CompanyID = uuid.NewString()
	newDesc := "Should not apply"
	req := dto.UpdateEntryRequest{Description: &newDesc}

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, existing.EntryID, req, &suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetEntry_Success() {
	ctx := context.Background()
	existing := suite.existingEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()

	entry, err := suite.service.GetEntry(ctx, suite.companyID, existing.EntryID)

	suite.Require().NoError(err)
	suite.Equal(existing.EntryID, entry.EntryID)
	suite.Len(entry.Lines, 2)
}

func (suite *JournalServiceTestSuite) TestGetEntry_OtherTenantLooksMissing() {
	ctx := context.Background()
	existing := suite.existingEntry()
	existing.CompanyID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Once()

	entry, err := suite.service.GetEntry(ctx, suite.companyID, existing.EntryID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *JournalServiceTestSuite) TestListEntries_NormalizesPagination() {
	ctx := context.Background()
	existing := suite.existingEntry()
	expectedPage := pagination.Page{Number: 1, Size: pagination.DefaultPageSize}

	suite.mockJournalRepo.On("ListEntries", ctx, suite.companyID, mock.AnythingOfType("domain.EntryFilter"), expectedPage).
		Return([]domain.JournalEntry{*existing}, int64(41), nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.companyID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 1)
	suite.Equal(int64(41), resp.Total)
	suite.Equal(1, resp.Page)
	suite.Equal(pagination.DefaultPageSize, resp.PageSize)
	suite.Equal(existing.EntryID, resp.Entries[0].EntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListAccountLines_Success() {
	ctx := context.Background()
	existing := suite.existingEntry()
	page := pagination.Page{Number: 2, Size: 10}

	suite.mockJournalRepo.On("ListLinesByAccount", ctx, suite.companyID, suite.cashAccount.AccountID, (*time.Time)(nil), (*time.Time)(nil), page).
		Return([]domain.JournalLine{existing.Lines[0]}, int64(11), nil).Once()

	resp, err := suite.service.ListAccountLines(ctx, suite.companyID, suite.cashAccount.AccountID, dto.ListAccountLinesParams{Page: 2, PageSize: 10})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, 1)
	suite.Equal(int64(11), resp.Total)
	suite.Equal(suite.cashAccount.AccountID, resp.Lines[0].AccountID)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
