package services

import (
	"context"
	"testing"

	"gemvault/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseFixture() (*fakeStore, *PurchaseService) {
	store := newFakeStore()
	repos := store.repos()
	svc := NewPurchaseService(&fakeTxManager{store: store}, repos.Purchases, repos.Products)
	return store, svc
}

func TestCheckoutUsesCatalogPrices(t *testing.T) {
	store, svc := newPurchaseFixture()

	ruby := store.addProduct(models.Product{Name: "Ruby Classic", Price: 50000})
	sapphire := store.addProduct(models.Product{Name: "Sapphire Deep", Price: 75000})

	created, err := svc.Checkout(context.Background(), 42, &CheckoutInput{
		Items: []CartItem{
			{ProductID: ruby.ID, Quantity: 2},
			{ProductID: sapphire.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, 100000.0, created[0].TotalAmount)
	assert.Equal(t, 75000.0, created[1].TotalAmount)
	for _, p := range created {
		assert.Equal(t, uint(42), p.UserID)
		assert.Equal(t, models.StatusPending, p.Status)
		assert.True(t, p.Active)
	}
	assert.Len(t, store.purchases, 2)
}

func TestCheckoutValidation(t *testing.T) {
	store, svc := newPurchaseFixture()
	ruby := store.addProduct(models.Product{Name: "Ruby Classic", Price: 50000})

	_, err := svc.Checkout(context.Background(), 1, &CheckoutInput{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.Checkout(context.Background(), 1, &CheckoutInput{
		Items: []CartItem{{ProductID: ruby.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Empty(t, store.purchases)
}

func TestCheckoutUnknownProductRollsBackWholeCart(t *testing.T) {
	store, svc := newPurchaseFixture()
	ruby := store.addProduct(models.Product{Name: "Ruby Classic", Price: 50000})

	_, err := svc.Checkout(context.Background(), 1, &CheckoutInput{
		Items: []CartItem{
			{ProductID: ruby.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, store.purchases, "no partial carts")
}

func TestCheckoutPriceChangeOnlyAffectsLaterCarts(t *testing.T) {
	store, svc := newPurchaseFixture()
	ruby := store.addProduct(models.Product{Name: "Ruby Classic", Price: 50000})

	first, err := svc.Checkout(context.Background(), 1, &CheckoutInput{
		Items: []CartItem{{ProductID: ruby.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	store.products[ruby.ID].Price = 60000

	second, err := svc.Checkout(context.Background(), 1, &CheckoutInput{
		Items: []CartItem{{ProductID: ruby.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 50000.0, first[0].TotalAmount)
	assert.Equal(t, 60000.0, second[0].TotalAmount)
	assert.Equal(t, 50000.0, store.purchases[first[0].ID].TotalAmount, "recorded amounts never change retroactively")
}

func TestProcessPurchase(t *testing.T) {
	store, svc := newPurchaseFixture()

	purchase := store.addPurchase(models.Purchase{UserID: 1, TotalAmount: 50000, Status: models.StatusPending, Active: true})

	updated, err := svc.Process(context.Background(), purchase.ID, &ProcessInput{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.True(t, updated.IsAccruing())

	// Settled once.
	_, err = svc.Process(context.Background(), purchase.ID, &ProcessInput{Status: models.StatusDeclined})
	assert.ErrorIs(t, err, ErrPurchaseProcessed)
	assert.Equal(t, models.StatusApproved, store.purchases[purchase.ID].Status)
}

func TestProcessValidation(t *testing.T) {
	_, svc := newPurchaseFixture()

	_, err := svc.Process(context.Background(), 1, &ProcessInput{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidPurchStatus)

	_, err = svc.Process(context.Background(), 404, &ProcessInput{Status: models.StatusApproved})
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestDeclinedPurchaseNeverAccrues(t *testing.T) {
	store, svc := newPurchaseFixture()
	balance := NewBalanceService(store.repos())
	balance.now = fixedNow

	alice := store.addUser(models.User{Name: "Alice", Phone: "0811111111", ReferralCode: "AAAA1111"})
	purchase := store.addPurchase(models.Purchase{UserID: alice.ID, TotalAmount: 50000, Status: models.StatusPending, Active: true, CreatedAt: fixedNow()})

	_, err := svc.Process(context.Background(), purchase.ID, &ProcessInput{Status: models.StatusDeclined})
	require.NoError(t, err)

	breakdown, err := balance.CalculateBalance(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, breakdown.GrossTotal)
}
