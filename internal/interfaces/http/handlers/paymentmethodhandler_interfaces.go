package handlers

import (
	"context"

	"paydesk/internal/application/billing/usecases"
)

// Use case interfaces consumed by the payment method handlers. Defined
// here so handler tests can substitute mocks.

type ContractCreator interface {
	Execute(ctx context.Context, cmd usecases.CreateContractCommand) (*usecases.CreateContractResult, error)
}

type ContractVerifier interface {
	Execute(ctx context.Context, cmd usecases.VerifyContractCommand) (*usecases.VerifyContractResult, error)
}

type ContractCanceller interface {
	Execute(ctx context.Context, cmd usecases.CancelContractCommand) error
}

type ContractRecoverer interface {
	Execute(ctx context.Context, cmd usecases.RecoverContractCommand) (*usecases.RecoverContractResult, error)
}

type DefaultPaymentMethodSetter interface {
	Execute(ctx context.Context, cmd usecases.SetDefaultPaymentMethodCommand) (*usecases.SetDefaultPaymentMethodResult, error)
}

type PaymentMethodLister interface {
	Execute(ctx context.Context, query usecases.ListPaymentMethodsQuery) (*usecases.ListPaymentMethodsResult, error)
}

type ContractCallbackExecutor interface {
	Execute(ctx context.Context, cmd usecases.ContractCallbackCommand) *usecases.ContractCallbackResult
}
