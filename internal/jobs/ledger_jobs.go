package jobs

import (
	"context"

	"driveshare-backend/internal/logger"
)

// ReconcileOwnerBalances recomputes every owner's balance snapshot from the
// payment and withdrawal rows. GetBalance already persists what it derives,
// so running it across all owners heals any drift overnight.
func (jr *JobRunner) ReconcileOwnerBalances() {
	jr.runWithRecovery("ReconcileOwnerBalances", func() {
		ctx := context.Background()

		ownerIDs, err := jr.store.OwnerProfileRepository.ListUserIDs(ctx)
		if err != nil {
			logger.Error("Failed to list owner profiles", "error", err)
			return
		}

		reconciled := 0
		for _, ownerID := range ownerIDs {
			if _, err := jr.services.Ledger.GetBalance(ctx, ownerID); err != nil {
				logger.Error("Failed to reconcile owner balance", "owner_id", ownerID, "error", err)
				continue
			}
			reconciled++
		}

		logger.Info("Reconciled owner balances", "total", len(ownerIDs), "reconciled", reconciled)
	})
}

// RefreshStaleAccounts re-pulls processor account state for owners whose
// onboarding never finished, in case an account.updated webhook was missed.
func (jr *JobRunner) RefreshStaleAccounts() {
	jr.runWithRecovery("RefreshStaleAccounts", func() {
		ctx := context.Background()

		profiles, err := jr.store.OwnerProfileRepository.ListIncompleteAccounts(ctx)
		if err != nil {
			logger.Error("Failed to list incomplete accounts", "error", err)
			return
		}

		refreshed := 0
		for _, profile := range profiles {
			if _, err := jr.services.Owner.RefreshAccountStatus(ctx, profile.UserID); err != nil {
				logger.Error("Failed to refresh account status",
					"user_id", profile.UserID, "account_id", profile.StripeAccountID, "error", err)
				continue
			}
			refreshed++
		}

		logger.Info("Refreshed stale accounts", "total", len(profiles), "refreshed", refreshed)
	})
}
