package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/signaturecipher"
	"paydesk/internal/domain/billing"
	"paydesk/internal/infrastructure/crypto"
	"paydesk/internal/infrastructure/persistence/models"
	"paydesk/internal/infrastructure/repository"
	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// testEnv wires real repositories, a real cipher and the in-memory fake
// gateway against sqlite, so the use cases run their actual transaction
// and dedup paths instead of mocks.
type testEnv struct {
	db        *gorm.DB
	pmRepo    *repository.PaymentMethodRepository
	eventRepo *repository.BillingEventRepository
	subRepo   *repository.SubscriptionRepository
	gateway   *contractgateway.FakeGateway
	cipher    signaturecipher.Cipher
	tx        *db.TransactionManager
	logger    logger.Interface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.PaymentMethodModel{},
		&models.BillingEventModel{},
		&models.SubscriptionModel{},
	))

	cipher, err := crypto.NewSignatureCipher("use-case-test-master-secret")
	require.NoError(t, err)

	log := logger.NewLogger()

	return &testEnv{
		db:        gdb,
		pmRepo:    repository.NewPaymentMethodRepository(gdb, log),
		eventRepo: repository.NewBillingEventRepository(gdb, log),
		subRepo:   repository.NewSubscriptionRepository(gdb, log),
		gateway:   contractgateway.NewFakeGateway(),
		cipher:    cipher,
		tx:        db.NewTransactionManager(gdb),
		logger:    log,
	}
}

func (e *testEnv) createUseCase() *CreateContractUseCase {
	return NewCreateContractUseCase(e.pmRepo, e.eventRepo, e.gateway, e.gateway, nil, e.tx, e.logger,
		ContractConfig{CallbackURL: "https://app.example.com/api/payment-methods/contracts/callback"})
}

func (e *testEnv) verifyUseCase() *VerifyContractUseCase {
	return NewVerifyContractUseCase(e.pmRepo, e.eventRepo, e.gateway, e.cipher, e.tx, e.logger)
}

func (e *testEnv) callbackUseCase() *ContractCallbackUseCase {
	return NewContractCallbackUseCase(e.pmRepo, e.eventRepo, e.gateway, e.cipher, e.tx, e.logger)
}

func (e *testEnv) recoverUseCase() *RecoverContractUseCase {
	return NewRecoverContractUseCase(e.pmRepo, e.eventRepo, e.gateway, e.cipher, e.tx, e.logger)
}

func (e *testEnv) cancelUseCase() *CancelContractUseCase {
	return NewCancelContractUseCase(e.pmRepo, e.eventRepo, e.subRepo, e.gateway, e.cipher, e.tx, e.logger)
}

// validCreateCommand fits inside the fake gateway's default bank limits.
func validCreateCommand(userID uint) CreateContractCommand {
	return CreateContractCommand{
		UserID:          userID,
		Mobile:          "09123456789",
		MaxAmount:       100_000,
		MaxDailyCount:   2,
		MaxMonthlyCount: 20,
		ExpireAt:        biztime.NowUTC().Add(30 * 24 * time.Hour),
	}
}

func (e *testEnv) countEvents(t *testing.T, userID uint, eventType billing.EventType) int64 {
	t.Helper()
	n, err := e.eventRepo.CountByType(context.Background(), userID, eventType)
	require.NoError(t, err)
	return n
}

func (e *testEnv) countRows(t *testing.T, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.PaymentMethodModel{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
