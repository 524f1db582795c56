package services

import (
	"context"
	"testing"
	"time"

	"gemvault/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatsFullPicture(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store.repos())

	alice := store.addUser(models.User{Name: "Alice", Phone: "0811111111", ReferralCode: "AAAA1111"})
	bob := store.addUser(models.User{Name: "Bob", Phone: "0822222222", ReferralCode: "BBBB2222", ReferredBy: &alice.ID})
	carol := store.addUser(models.User{Name: "Carol", Phone: "0833333333", ReferralCode: "CCCC3333", ReferredBy: &alice.ID})
	store.users[carol.ID].IsActive = false

	earlier := fixedNow().Add(-48 * time.Hour)
	later := fixedNow().Add(-24 * time.Hour)
	store.addPurchase(models.Purchase{UserID: bob.ID, TotalAmount: 10000, Status: models.StatusApproved, Active: true, CreatedAt: earlier})
	store.addPurchase(models.Purchase{UserID: bob.ID, TotalAmount: 2000, Status: models.StatusApproved, Active: false, CreatedAt: later})
	store.addPurchase(models.Purchase{UserID: bob.ID, TotalAmount: 9999, Status: models.StatusPending, Active: true})
	store.addPurchase(models.Purchase{UserID: carol.ID, TotalAmount: 500, Status: models.StatusDeclined, Active: true})

	// Alice's own purchases across every status.
	store.addPurchase(models.Purchase{UserID: alice.ID, TotalAmount: 3000, Status: models.StatusApproved, Active: true})
	store.addPurchase(models.Purchase{UserID: alice.ID, TotalAmount: 1000, Status: models.StatusApproved, Active: false})
	store.addPurchase(models.Purchase{UserID: alice.ID, TotalAmount: 500, Status: models.StatusPending, Active: true})

	stats, err := svc.GetStats(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Equal(t, "AAAA1111", stats.ReferralCode)
	assert.Equal(t, 2, stats.TotalReferrals)
	assert.Equal(t, 1, stats.ActiveReferrals)

	// Only Bob's approved purchases earn commission, forfeited or not.
	require.Len(t, stats.Commissions, 2)
	assert.Equal(t, 1500.0, stats.Commissions[0].Commission)
	assert.Equal(t, 300.0, stats.Commissions[1].Commission)
	assert.Equal(t, "0822222222", stats.Commissions[0].ReferredPhone)
	assert.Equal(t, 1800.0, stats.TotalCommission)

	require.Len(t, stats.Referrals, 2)
	bobEntry := stats.Referrals[0]
	assert.Equal(t, "Bob", bobEntry.Name)
	assert.Equal(t, 2, bobEntry.TotalPurchases)
	assert.Equal(t, 12000.0, bobEntry.TotalSpent)
	require.NotNil(t, bobEntry.LastPurchase)
	assert.True(t, bobEntry.LastPurchase.Equal(later))

	carolEntry := stats.Referrals[1]
	assert.Equal(t, 0, carolEntry.TotalPurchases)
	assert.Nil(t, carolEntry.LastPurchase)
	assert.False(t, carolEntry.IsActive)

	// Totals cover every status; the splits break them down.
	assert.Equal(t, 3, stats.TotalPurchases)
	assert.Equal(t, 1, stats.PendingPurchases)
	assert.Equal(t, 2, stats.ApprovedPurchases)
	assert.Equal(t, 1, stats.ActivePurchases)
	assert.Equal(t, 4500.0, stats.TotalSpent)
	assert.Equal(t, 4000.0, stats.ApprovedSpent)
	assert.Equal(t, 3000.0, stats.ActiveSpent)
}

func TestGetStatsNoReferrals(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store.repos())

	loner := store.addUser(models.User{Name: "Loner", Phone: "0844444444", ReferralCode: "DDDD4444"})

	stats, err := svc.GetStats(context.Background(), loner.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalReferrals)
	assert.NotNil(t, stats.Referrals)
	assert.NotNil(t, stats.Commissions)
	assert.Empty(t, stats.Referrals)
	assert.Empty(t, stats.Commissions)
	assert.Equal(t, 0.0, stats.TotalCommission)
}

func TestGetStatsUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store.repos())

	_, err := svc.GetStats(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// The referral dashboard and the balance breakdown must tell the same
// commission story for the same ledger.
func TestTotalCommissionMatchesBalance(t *testing.T) {
	store := newFakeStore()
	referrals := NewReferralService(store.repos())
	balance := NewBalanceService(store.repos())
	balance.now = fixedNow

	alice := store.addUser(models.User{Name: "Alice", Phone: "0811111111", ReferralCode: "AAAA1111"})
	bob := store.addUser(models.User{Name: "Bob", Phone: "0822222222", ReferralCode: "BBBB2222", ReferredBy: &alice.ID})
	carol := store.addUser(models.User{Name: "Carol", Phone: "0833333333", ReferralCode: "CCCC3333", ReferredBy: &alice.ID})

	store.addPurchase(models.Purchase{UserID: bob.ID, TotalAmount: 33.33, Status: models.StatusApproved, Active: true})
	store.addPurchase(models.Purchase{UserID: carol.ID, TotalAmount: 7777.77, Status: models.StatusApproved, Active: false})
	store.addPurchase(models.Purchase{UserID: carol.ID, TotalAmount: 123.45, Status: models.StatusPending, Active: true})

	stats, err := referrals.GetStats(context.Background(), alice.ID)
	require.NoError(t, err)

	breakdown, err := balance.CalculateBalance(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Equal(t, breakdown.CommissionSum, stats.TotalCommission)
}
