package mocks

import (
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockPendingBvnRepo struct {
	mock.Mock
}

func (m *MockPendingBvnRepo) Upsert(pending *models.PendingBvnVerification) (string, error) {
	args := m.Called(pending)
	return args.String(0), args.Error(1)
}

func (m *MockPendingBvnRepo) GetByReference(reference string) (*models.PendingBvnVerification, bool, error) {
	args := m.Called(reference)
	return pendingArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockPendingBvnRepo) GetByUser(userID string) (*models.PendingBvnVerification, bool, error) {
	args := m.Called(userID)
	return pendingArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockPendingBvnRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func pendingArg(v any) *models.PendingBvnVerification {
	if v == nil {
		return nil
	}
	return v.(*models.PendingBvnVerification)
}
