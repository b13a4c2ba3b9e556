package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories used by service tests
type Stores struct {
	SequenceRepo    *InMemorySequenceStore
	IssuedCodeRepo  *InMemoryIssuedCodeStore
	TenantRepo      *InMemoryTenantStore
	BranchRepo      *InMemoryBranchStore
	ConsignmentRepo *InMemoryConsignmentStore
	InvoiceRepo     *InMemoryInvoiceStore
	OGPLRepo        *InMemoryOGPLStore
	DeliveryRunRepo *InMemoryDeliveryRunStore
	ReceiptRepo     *InMemoryReceiptStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	db      *MockPostgresClient
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
	config  *config.Configuration

	clockMu sync.Mutex
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
	s.metrics = metrics.NewMetrics()
	s.SetNow(time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC))
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		SequenceRepo:    NewInMemorySequenceStore(),
		IssuedCodeRepo:  NewInMemoryIssuedCodeStore(),
		TenantRepo:      NewInMemoryTenantStore(),
		BranchRepo:      NewInMemoryBranchStore(),
		ConsignmentRepo: NewInMemoryConsignmentStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		OGPLRepo:        NewInMemoryOGPLStore(),
		DeliveryRunRepo: NewInMemoryDeliveryRunStore(),
		ReceiptRepo:     NewInMemoryReceiptStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.SequenceRepo.Clear()
	s.stores.IssuedCodeRepo.Clear()
	s.stores.TenantRepo.Clear()
	s.stores.BranchRepo.Clear()
	s.stores.ConsignmentRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.OGPLRepo.Clear()
	s.stores.DeliveryRunRepo.Clear()
	s.stores.ReceiptRepo.Clear()
}

// ClearStores clears all stores
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow reads the suite clock
func (s *BaseServiceTestSuite) GetNow() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.now
}

// SetNow moves the suite clock
func (s *BaseServiceTestSuite) SetNow(now time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = now
}

// CreateTestTenant stores an active tenant
func (s *BaseServiceTestSuite) CreateTestTenant(id, name string) *tenant.Tenant {
	t := &tenant.Tenant{
		ID:        id,
		Name:      name,
		Status:    types.StatusActive,
		CreatedAt: s.GetNow(),
		UpdatedAt: s.GetNow(),
	}
	s.Require().NoError(s.stores.TenantRepo.Create(s.ctx, t))
	return t
}

// CreateTestBranch stores an active branch of the tenant in ctx
func (s *BaseServiceTestSuite) CreateTestBranch(ctx context.Context, code, city string) *branch.Branch {
	b := &branch.Branch{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BRANCH),
		Code:      code,
		Name:      city + " Branch",
		City:      city,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.stores.BranchRepo.Create(ctx, b))
	return b
}
