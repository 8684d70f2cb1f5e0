package mocks

import (
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	args := m.Called(id)
	return userArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, bool, error) {
	args := m.Called(email)
	return userArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByEmailOrTag(identifier string) (*models.User, bool, error) {
	args := m.Called(identifier)
	return userArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByTag(tag string) (*models.User, bool, error) {
	args := m.Called(tag)
	return userArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByBvn(bvn string) (*models.User, bool, error) {
	args := m.Called(bvn)
	return userArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) MarkEmailVerified(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(id, hashedPassword string) error {
	args := m.Called(id, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateProfile(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) SetIdentityStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockUserRepo) ApproveIdentity(id, bvn string) error {
	args := m.Called(id, bvn)
	return args.Error(0)
}

func (m *MockUserRepo) AttachVirtualAccount(id string, account *models.VirtualAccountDetails) error {
	args := m.Called(id, account)
	return args.Error(0)
}

func (m *MockUserRepo) SetReferrer(id, referrerID string) error {
	args := m.Called(id, referrerID)
	return args.Error(0)
}

func (m *MockUserRepo) ChangePhoto(id, photo string) error {
	args := m.Called(id, photo)
	return args.Error(0)
}

func (m *MockUserRepo) Debit(id string, amount float64) (bool, error) {
	args := m.Called(id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) Credit(id string, amount float64) error {
	args := m.Called(id, amount)
	return args.Error(0)
}

func userArg(v any) *models.User {
	if v == nil {
		return nil
	}
	return v.(*models.User)
}
