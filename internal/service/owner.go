package service

import (
	"context"
	"errors"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository"
)

type ownerService struct {
	ownerRepo repository.OwnerProfileRepository
	userRepo  repository.UserRepository
	provider  payments.Provider
	baseURL   string
}

func NewOwnerService(
	ownerRepo repository.OwnerProfileRepository,
	userRepo repository.UserRepository,
	provider payments.Provider,
	baseURL string,
) OwnerService {
	return &ownerService{
		ownerRepo: ownerRepo,
		userRepo:  userRepo,
		provider:  provider,
		baseURL:   baseURL,
	}
}

// CreateConnectedAccount provisions the owner's payout account with the
// processor. Calling it again for an already-onboarded owner returns the
// existing account id.
func (s *ownerService) CreateConnectedAccount(ctx context.Context, userID int32) (string, error) {
	profile, err := s.ownerRepo.GetByUserID(ctx, userID)
	if err == nil && profile.Onboarded() {
		return profile.StripeAccountID, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	accountID, err := s.provider.CreateConnectedAccount(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("creating connected account: %w", err)
	}

	if err := s.ownerRepo.Create(ctx, &domain.OwnerProfile{
		UserID:          userID,
		StripeAccountID: accountID,
	}); err != nil {
		return "", err
	}

	logger.Info("connected account created", "user_id", userID, "account_id", accountID)
	return accountID, nil
}

func (s *ownerService) OnboardingLink(ctx context.Context, userID int32) (string, error) {
	profile, err := s.ownerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrOwnerNotOnboarded
		}
		return "", err
	}
	if !profile.Onboarded() {
		return "", domain.ErrOwnerNotOnboarded
	}

	refreshURL := s.baseURL + "/api/v1/owners/account/refresh"
	returnURL := s.baseURL + "/onboarding/complete"
	url, err := s.provider.CreateAccountOnboardingLink(ctx, profile.StripeAccountID, refreshURL, returnURL)
	if err != nil {
		return "", fmt.Errorf("creating onboarding link: %w", err)
	}
	return url, nil
}

// RefreshAccountStatus pulls current account state from the processor and
// stores the capability flags. This is the same update the account.updated
// webhook applies, available on demand.
func (s *ownerService) RefreshAccountStatus(ctx context.Context, userID int32) (*domain.OwnerProfile, error) {
	profile, err := s.ownerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOwnerNotOnboarded
		}
		return nil, err
	}
	if !profile.Onboarded() {
		return nil, domain.ErrOwnerNotOnboarded
	}

	status, err := s.provider.RetrieveAccount(ctx, profile.StripeAccountID)
	if err != nil {
		return nil, fmt.Errorf("retrieving account %s: %w", profile.StripeAccountID, err)
	}

	onboarded := status.DetailsSubmitted && status.ChargesEnabled
	if err := s.ownerRepo.UpdateAccountFlags(ctx, profile.StripeAccountID,
		status.ChargesEnabled, status.PayoutsEnabled, status.DetailsSubmitted, onboarded); err != nil {
		return nil, err
	}

	return s.ownerRepo.GetByUserID(ctx, userID)
}
