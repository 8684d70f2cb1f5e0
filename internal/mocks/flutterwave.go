package mocks

import (
	"context"

	"github.com/cradoe/finlap/internal/flutterwave"

	"github.com/stretchr/testify/mock"
)

type MockFlutterwave struct {
	mock.Mock
}

func (m *MockFlutterwave) InitiateBvnConsent(ctx context.Context, input *flutterwave.BvnConsentInput) (*flutterwave.BvnConsent, error) {
	args := m.Called(ctx, input)

	var consent *flutterwave.BvnConsent
	if args.Get(0) != nil {
		consent = args.Get(0).(*flutterwave.BvnConsent)
	}

	return consent, args.Error(1)
}

func (m *MockFlutterwave) CreateVirtualAccount(ctx context.Context, email, bvn string, permanent bool) (*flutterwave.VirtualAccount, error) {
	args := m.Called(ctx, email, bvn, permanent)

	var account *flutterwave.VirtualAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*flutterwave.VirtualAccount)
	}

	return account, args.Error(1)
}

func (m *MockFlutterwave) Banks(ctx context.Context) ([]flutterwave.Bank, error) {
	args := m.Called(ctx)

	var banks []flutterwave.Bank
	if args.Get(0) != nil {
		banks = args.Get(0).([]flutterwave.Bank)
	}

	return banks, args.Error(1)
}

func (m *MockFlutterwave) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*flutterwave.ResolvedAccount, error) {
	args := m.Called(ctx, accountNumber, bankCode)

	var account *flutterwave.ResolvedAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*flutterwave.ResolvedAccount)
	}

	return account, args.Error(1)
}
