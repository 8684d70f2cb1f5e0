package mocks

import (
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(transaction *models.Transaction) (*models.Transaction, error) {
	args := m.Called(transaction)
	return transactionArg(args.Get(0)), args.Error(1)
}

func (m *MockTransactionRepo) FindByReference(referenceNumber string) (*models.Transaction, bool, error) {
	args := m.Called(referenceNumber)
	return transactionArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) GetOne(id string) (*models.Transaction, bool, error) {
	args := m.Called(id)
	return transactionArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) UpdateStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func transactionArg(v any) *models.Transaction {
	if v == nil {
		return nil
	}
	return v.(*models.Transaction)
}
