// gomock doubles for the services the runner sequences, in mockgen layout.

package pipeline

import (
	context "context"
	reflect "reflect"
	time "time"

	gomock "github.com/golang/mock/gomock"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
	extractdomain "github.com/smallbiznis/salesdw/internal/extract/domain"
	factdomain "github.com/smallbiznis/salesdw/internal/fact/domain"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
)

// MockExtractService is a mock of extractdomain.Service interface.
type MockExtractService struct {
	ctrl     *gomock.Controller
	recorder *MockExtractServiceMockRecorder
}

// MockExtractServiceMockRecorder is the mock recorder for MockExtractService.
type MockExtractServiceMockRecorder struct {
	mock *MockExtractService
}

// NewMockExtractService creates a new mock instance.
func NewMockExtractService(ctrl *gomock.Controller) *MockExtractService {
	mock := &MockExtractService{ctrl: ctrl}
	mock.recorder = &MockExtractServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockExtractService) EXPECT() *MockExtractServiceMockRecorder {
	return m.recorder
}

// Run mocks base method.
func (m *MockExtractService) Run(ctx context.Context) (extractdomain.ExtractionResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx)
	ret0, _ := ret[0].(extractdomain.ExtractionResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Run indicates an expected call of Run.
func (mr *MockExtractServiceMockRecorder) Run(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockExtractService)(nil).Run), ctx)
}

// MockReferenceService is a mock of referencedomain.Service interface.
type MockReferenceService struct {
	ctrl     *gomock.Controller
	recorder *MockReferenceServiceMockRecorder
}

// MockReferenceServiceMockRecorder is the mock recorder for MockReferenceService.
type MockReferenceServiceMockRecorder struct {
	mock *MockReferenceService
}

// NewMockReferenceService creates a new mock instance.
func NewMockReferenceService(ctrl *gomock.Controller) *MockReferenceService {
	mock := &MockReferenceService{ctrl: ctrl}
	mock.recorder = &MockReferenceServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReferenceService) EXPECT() *MockReferenceServiceMockRecorder {
	return m.recorder
}

// SeedCalendar mocks base method.
func (m *MockReferenceService) SeedCalendar(ctx context.Context, from, to time.Time) (referencedomain.SeedResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SeedCalendar", ctx, from, to)
	ret0, _ := ret[0].(referencedomain.SeedResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SeedCalendar indicates an expected call of SeedCalendar.
func (mr *MockReferenceServiceMockRecorder) SeedCalendar(ctx, from, to interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SeedCalendar", reflect.TypeOf((*MockReferenceService)(nil).SeedCalendar), ctx, from, to)
}

// SeedStatuses mocks base method.
func (m *MockReferenceService) SeedStatuses(ctx context.Context) (referencedomain.SeedResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SeedStatuses", ctx)
	ret0, _ := ret[0].(referencedomain.SeedResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SeedStatuses indicates an expected call of SeedStatuses.
func (mr *MockReferenceServiceMockRecorder) SeedStatuses(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SeedStatuses", reflect.TypeOf((*MockReferenceService)(nil).SeedStatuses), ctx)
}

// VerifyCalendar mocks base method.
func (m *MockReferenceService) VerifyCalendar(ctx context.Context) (referencedomain.VerifyResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VerifyCalendar", ctx)
	ret0, _ := ret[0].(referencedomain.VerifyResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// VerifyCalendar indicates an expected call of VerifyCalendar.
func (mr *MockReferenceServiceMockRecorder) VerifyCalendar(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "VerifyCalendar", reflect.TypeOf((*MockReferenceService)(nil).VerifyCalendar), ctx)
}

// VerifyStatuses mocks base method.
func (m *MockReferenceService) VerifyStatuses(ctx context.Context) (referencedomain.VerifyResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VerifyStatuses", ctx)
	ret0, _ := ret[0].(referencedomain.VerifyResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// VerifyStatuses indicates an expected call of VerifyStatuses.
func (mr *MockReferenceServiceMockRecorder) VerifyStatuses(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "VerifyStatuses", reflect.TypeOf((*MockReferenceService)(nil).VerifyStatuses), ctx)
}

// MockDimensionService is a mock of dimensiondomain.Service interface.
type MockDimensionService struct {
	ctrl     *gomock.Controller
	recorder *MockDimensionServiceMockRecorder
}

// MockDimensionServiceMockRecorder is the mock recorder for MockDimensionService.
type MockDimensionServiceMockRecorder struct {
	mock *MockDimensionService
}

// NewMockDimensionService creates a new mock instance.
func NewMockDimensionService(ctrl *gomock.Controller) *MockDimensionService {
	mock := &MockDimensionService{ctrl: ctrl}
	mock.recorder = &MockDimensionServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockDimensionService) EXPECT() *MockDimensionServiceMockRecorder {
	return m.recorder
}

// MergeCustomers mocks base method.
func (m *MockDimensionService) MergeCustomers(ctx context.Context) (dimensiondomain.MergeResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MergeCustomers", ctx)
	ret0, _ := ret[0].(dimensiondomain.MergeResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MergeCustomers indicates an expected call of MergeCustomers.
func (mr *MockDimensionServiceMockRecorder) MergeCustomers(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MergeCustomers", reflect.TypeOf((*MockDimensionService)(nil).MergeCustomers), ctx)
}

// MergeProducts mocks base method.
func (m *MockDimensionService) MergeProducts(ctx context.Context) (dimensiondomain.MergeResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MergeProducts", ctx)
	ret0, _ := ret[0].(dimensiondomain.MergeResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MergeProducts indicates an expected call of MergeProducts.
func (mr *MockDimensionServiceMockRecorder) MergeProducts(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MergeProducts", reflect.TypeOf((*MockDimensionService)(nil).MergeProducts), ctx)
}

// MockFactService is a mock of factdomain.Service interface.
type MockFactService struct {
	ctrl     *gomock.Controller
	recorder *MockFactServiceMockRecorder
}

// MockFactServiceMockRecorder is the mock recorder for MockFactService.
type MockFactServiceMockRecorder struct {
	mock *MockFactService
}

// NewMockFactService creates a new mock instance.
func NewMockFactService(ctrl *gomock.Controller) *MockFactService {
	mock := &MockFactService{ctrl: ctrl}
	mock.recorder = &MockFactServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockFactService) EXPECT() *MockFactServiceMockRecorder {
	return m.recorder
}

// Load mocks base method.
func (m *MockFactService) Load(ctx context.Context) (factdomain.LoadResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Load", ctx)
	ret0, _ := ret[0].(factdomain.LoadResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Load indicates an expected call of Load.
func (mr *MockFactServiceMockRecorder) Load(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Load", reflect.TypeOf((*MockFactService)(nil).Load), ctx)
}

// Snapshot mocks base method.
func (m *MockFactService) Snapshot(ctx context.Context) (factdomain.Snapshot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Snapshot", ctx)
	ret0, _ := ret[0].(factdomain.Snapshot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Snapshot indicates an expected call of Snapshot.
func (mr *MockFactServiceMockRecorder) Snapshot(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Snapshot", reflect.TypeOf((*MockFactService)(nil).Snapshot), ctx)
}
