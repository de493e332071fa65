package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository"
)

// ledgerService is the only writer of owner balance fields. Every other
// component appends payment or withdrawal rows and the ledger derives the
// truth from those.
type ledgerService struct {
	db        TxBeginner
	ownerRepo repository.OwnerProfileRepository
	payRepo   repository.PaymentRepository
	wdRepo    repository.WithdrawalRepository
	userRepo  repository.UserRepository
	provider  payments.Provider
	currency  string
	emailSvc  EmailService
}

func NewLedgerService(
	db TxBeginner,
	ownerRepo repository.OwnerProfileRepository,
	payRepo repository.PaymentRepository,
	wdRepo repository.WithdrawalRepository,
	userRepo repository.UserRepository,
	provider payments.Provider,
	currency string,
	emailSvc EmailService,
) LedgerService {
	return &ledgerService{
		db:        db,
		ownerRepo: ownerRepo,
		payRepo:   payRepo,
		wdRepo:    wdRepo,
		userRepo:  userRepo,
		provider:  provider,
		currency:  currency,
		emailSvc:  emailSvc,
	}
}

// GetBalance recomputes the owner's totals from payment and withdrawal
// rows and writes the snapshot back onto the profile, so any drift in the
// incrementally maintained fields heals on read.
func (s *ledgerService) GetBalance(ctx context.Context, ownerID int32) (*domain.BalanceSnapshot, error) {
	if _, err := s.ownerRepo.GetByUserID(ctx, ownerID); err != nil {
		return nil, err
	}

	succeeded, pending, err := s.payRepo.SumsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.wdRepo.SumCompletedOwnerByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snap := domain.BalanceSnapshot{
		TotalEarnings:    succeeded,
		AvailableBalance: succeeded.Sub(withdrawn),
		PendingBalance:   pending,
		TotalWithdrawn:   withdrawn,
	}
	if err := s.ownerRepo.SaveSnapshot(ctx, ownerID, snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Withdraw moves funds from the owner's available balance to their
// connected account. The profile row is locked for the whole
// check-transfer-debit sequence so two concurrent requests cannot both
// pass the balance check.
func (s *ledgerService) Withdraw(ctx context.Context, ownerID int32, amount decimal.Decimal) (*domain.Withdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	amount = amount.Round(2)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	profile, err := s.ownerRepo.GetForUpdateTx(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}
	if !profile.Onboarded() {
		return nil, domain.ErrOwnerNotOnboarded
	}
	if !profile.StripePayoutsEnabled {
		return nil, domain.ErrPayoutsDisabled
	}
	if amount.GreaterThan(profile.AvailableBalance) {
		return nil, &domain.InsufficientBalanceError{
			Available: profile.AvailableBalance,
			Requested: amount,
		}
	}

	transferID, err := s.provider.CreateTransfer(ctx, payments.TransferParams{
		AmountMinor:          payments.MinorUnits(amount),
		Currency:             s.currency,
		DestinationAccountID: profile.StripeAccountID,
		Description:          fmt.Sprintf("withdrawal for owner %d", ownerID),
		Metadata:             map[string]string{"owner_id": fmt.Sprintf("%d", ownerID)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating transfer: %w", err)
	}

	now := time.Now()
	withdrawal := &domain.Withdrawal{
		UserID:          ownerID,
		Amount:          amount,
		Currency:        s.currency,
		Type:            domain.WithdrawalTypeOwner,
		Status:          domain.WithdrawalStatusCompleted,
		StripeReference: transferID,
		Description:     "owner balance withdrawal",
		ProcessedAt:     &now,
	}
	if err := s.wdRepo.CreateTx(ctx, tx, withdrawal); err != nil {
		return nil, err
	}
	if err := s.ownerRepo.DebitForWithdrawalTx(ctx, tx, ownerID, amount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("owner withdrawal completed",
		"owner_id", ownerID, "amount", amount, "transfer_id", transferID)

	s.sendReceipt(ctx, ownerID, withdrawal)

	return withdrawal, nil
}

func (s *ledgerService) sendReceipt(ctx context.Context, userID int32, withdrawal *domain.Withdrawal) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("failed to load user for withdrawal receipt", "user_id", userID, "error", err)
		return
	}
	if err := s.emailSvc.SendWithdrawalReceipt(ctx, user.Email, user.Name, withdrawal); err != nil {
		logger.Error("failed to send withdrawal receipt", "user_id", userID, "error", err)
	}
}

func (s *ledgerService) ListWithdrawals(ctx context.Context, userID, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	return s.wdRepo.ListByUser(ctx, userID, page, pageSize)
}

// PlatformBalance is the commission earned across all owners minus
// platform withdrawals already issued, including ones still processing.
func (s *ledgerService) PlatformBalance(ctx context.Context) (*PlatformBalance, error) {
	fees, err := s.payRepo.SumPlatformFees(ctx)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.wdRepo.SumPlatform(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformBalance{
		TotalFees: fees,
		Withdrawn: withdrawn,
		Available: fees.Sub(withdrawn),
	}, nil
}

// PlatformWithdraw draws accumulated commission to the platform's bank
// account. The payout settles asynchronously, so the withdrawal row starts
// processing and the payout.paid / payout.failed webhooks finish it.
func (s *ledgerService) PlatformWithdraw(ctx context.Context, adminID int32, amount decimal.Decimal, description string) (*domain.Withdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	amount = amount.Round(2)

	balance, err := s.PlatformBalance(ctx)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance.Available) {
		return nil, &domain.InsufficientBalanceError{
			Available: balance.Available,
			Requested: amount,
		}
	}

	if description == "" {
		description = "platform commission withdrawal"
	}
	payoutID, err := s.provider.CreatePayout(ctx, payments.PayoutParams{
		AmountMinor: payments.MinorUnits(amount),
		Currency:    s.currency,
		Description: description,
		Metadata:    map[string]string{"admin_id": fmt.Sprintf("%d", adminID)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating payout: %w", err)
	}

	withdrawal := &domain.Withdrawal{
		UserID:          adminID,
		Amount:          amount,
		Currency:        s.currency,
		Type:            domain.WithdrawalTypePlatform,
		Status:          domain.WithdrawalStatusProcessing,
		StripeReference: payoutID,
		Description:     description,
	}
	if err := s.wdRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	logger.Info("platform withdrawal initiated",
		"admin_id", adminID, "amount", amount, "payout_id", payoutID)

	return withdrawal, nil
}
