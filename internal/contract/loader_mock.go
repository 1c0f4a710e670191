package contract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tephralab/plume/grid"
)

// --- MockEnsembleLoader Implementation ---

// MockEnsembleLoader is an autogenerated mock type for the EnsembleLoader type.
type MockEnsembleLoader struct {
	mock.Mock
}

var _ EnsembleLoader = &MockEnsembleLoader{} // Compile-time check

// LoadEnsemble implements the EnsembleLoader interface.
func (m *MockEnsembleLoader) LoadEnsemble(ctx context.Context, scenario string, members []int, variable string) (*grid.Field, error) {
	ret := m.Called(ctx, scenario, members, variable)
	field, _ := ret.Get(0).(*grid.Field)
	return field, ret.Error(1)
}

// LoadMembers implements the EnsembleLoader interface.
func (m *MockEnsembleLoader) LoadMembers(ctx context.Context, scenario string, members []int, variable string) ([]*grid.Field, error) {
	ret := m.Called(ctx, scenario, members, variable)
	fields, _ := ret.Get(0).([]*grid.Field)
	return fields, ret.Error(1)
}

// LoadControl implements the EnsembleLoader interface.
func (m *MockEnsembleLoader) LoadControl(ctx context.Context, path string, variable string) (*grid.Field, error) {
	ret := m.Called(ctx, path, variable)
	field, _ := ret.Get(0).(*grid.Field)
	return field, ret.Error(1)
}

// SaveEnsemble implements the EnsembleLoader interface.
func (m *MockEnsembleLoader) SaveEnsemble(fields []*grid.Field, members []int, variable, suffix string) (*grid.Field, string, error) {
	ret := m.Called(fields, members, variable, suffix)
	field, _ := ret.Get(0).(*grid.Field)
	path, _ := ret.Get(1).(string)
	return field, path, ret.Error(2)
}

// EnsembleStamp implements the EnsembleLoader interface.
func (m *MockEnsembleLoader) EnsembleStamp(scenario string, members []int, variable string) string {
	ret := m.Called(scenario, members, variable)
	stamp, _ := ret.Get(0).(string)
	return stamp
}
