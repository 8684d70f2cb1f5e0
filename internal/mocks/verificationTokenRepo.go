package mocks

import (
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockVerificationTokenRepo struct {
	mock.Mock
}

func (m *MockVerificationTokenRepo) Insert(token *models.VerificationToken) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationTokenRepo) GetBySelector(selector, tokenType string) (*models.VerificationToken, bool, error) {
	args := m.Called(selector, tokenType)

	var token *models.VerificationToken
	if args.Get(0) != nil {
		token = args.Get(0).(*models.VerificationToken)
	}

	return token, args.Bool(1), args.Error(2)
}

func (m *MockVerificationTokenRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVerificationTokenRepo) DeleteAllForUser(userID, tokenType string) error {
	args := m.Called(userID, tokenType)
	return args.Error(0)
}
