package services

import (
	"context"
	"sort"
	"time"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. The fake tx
// manager runs each unit of work against a deep copy and swaps the
// copy in only on success, which gives tests real rollback semantics.
type fakeStore struct {
	users       map[uint]*models.User
	products    map[uint]*models.Product
	purchases   map[uint]*models.Purchase
	withdrawals map[uint]*models.Withdrawal
	nextID      uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uint]*models.User),
		products:    make(map[uint]*models.Product),
		purchases:   make(map[uint]*models.Purchase),
		withdrawals: make(map[uint]*models.Withdrawal),
		nextID:      1,
	}
}

func (s *fakeStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	c.nextID = s.nextID
	for id, u := range s.users {
		v := *u
		c.users[id] = &v
	}
	for id, p := range s.products {
		v := *p
		c.products[id] = &v
	}
	for id, p := range s.purchases {
		v := *p
		c.purchases[id] = &v
	}
	for id, w := range s.withdrawals {
		v := *w
		c.withdrawals[id] = &v
	}
	return c
}

func (s *fakeStore) replaceWith(c *fakeStore) {
	s.users = c.users
	s.products = c.products
	s.purchases = c.purchases
	s.withdrawals = c.withdrawals
	s.nextID = c.nextID
}

func (s *fakeStore) repos() *repositories.Repositories {
	return &repositories.Repositories{
		Users:       &fakeUserRepo{store: s},
		Products:    &fakeProductRepo{store: s},
		Purchases:   &fakePurchaseRepo{store: s},
		Withdrawals: &fakeWithdrawalRepo{store: s},
	}
}

// Seed helpers.

func (s *fakeStore) addUser(u models.User) *models.User {
	u.ID = s.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.IsActive = true
	s.users[u.ID] = &u
	return s.users[u.ID]
}

func (s *fakeStore) addProduct(p models.Product) *models.Product {
	p.ID = s.id()
	s.products[p.ID] = &p
	return s.products[p.ID]
}

func (s *fakeStore) addPurchase(p models.Purchase) *models.Purchase {
	p.ID = s.id()
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.purchases[p.ID] = &p
	return s.purchases[p.ID]
}

func (s *fakeStore) addWithdrawal(w models.Withdrawal) *models.Withdrawal {
	w.ID = s.id()
	if w.Status == "" {
		w.Status = models.StatusPending
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	s.withdrawals[w.ID] = &w
	return s.withdrawals[w.ID]
}

// fakeTxManager runs fn against a clone and commits by swapping.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r *repositories.Repositories) error) error {
	txStore := m.store.clone()
	if err := fn(ctx, txStore.repos()); err != nil {
		return err
	}
	m.store.replaceWith(txStore)
	return nil
}

// ---- refresh token repository ----

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	v := *token
	r.tokens[token.ID] = &v
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			v := *t
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error) {
	var out []*models.RefreshToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			v := *t
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, id uint) error {
	t, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	for _, t := range r.tokens {
		if t.UserID == userID && !t.IsRevoked() && !t.IsExpired() {
			n++
		}
	}
	return n, nil
}

// ---- user repository ----

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.store.id()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	v := *user
	r.store.users[user.ID] = &v
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v := *u
	return &v, nil
}

func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.Phone == phone {
			v := *u
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.ReferralCode == code {
			v := *u
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ListReferredBy(ctx context.Context, referrerID uint) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.store.users {
		if u.ReferredBy != nil && *u.ReferredBy == referrerID {
			v := *u
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	v := *user
	r.store.users[user.ID] = &v
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var all []*models.User
	for _, u := range r.store.users {
		v := *u
		all = append(all, &v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	for _, u := range r.store.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	for _, u := range r.store.users {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

// ---- product repository ----

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = r.store.id()
	v := *product
	r.store.products[product.ID] = &v
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v := *p
	return &v, nil
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.store.products {
		v := *p
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	v := *product
	r.store.products[product.ID] = &v
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.products, id)
	return nil
}

// ---- purchase repository ----

type fakePurchaseRepo struct {
	store *fakeStore
}

func (r *fakePurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	purchase.ID = r.store.id()
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now()
	}
	v := *purchase
	r.store.purchases[purchase.ID] = &v
	return nil
}

func (r *fakePurchaseRepo) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v := *p
	return &v, nil
}

func (r *fakePurchaseRepo) GetOwnedAccruing(ctx context.Context, id, userID uint) (*models.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok || p.UserID != userID || !p.IsAccruing() {
		return nil, gorm.ErrRecordNotFound
	}
	v := *p
	return &v, nil
}

func (r *fakePurchaseRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	var out []*models.Purchase
	for _, p := range r.store.purchases {
		if p.UserID == userID {
			v := *p
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePurchaseRepo) ListAccruingByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	var out []*models.Purchase
	for _, p := range r.store.purchases {
		if p.UserID == userID && p.IsAccruing() {
			v := *p
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePurchaseRepo) ListApprovedByUsers(ctx context.Context, userIDs []uint) ([]*models.Purchase, error) {
	ids := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []*models.Purchase
	for _, p := range r.store.purchases {
		if ids[p.UserID] && p.Status == models.StatusApproved {
			v := *p
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePurchaseRepo) List(ctx context.Context, offset, limit int) ([]*models.Purchase, int64, error) {
	var all []*models.Purchase
	for _, p := range r.store.purchases {
		v := *p
		all = append(all, &v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePurchaseRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Purchase, int64, error) {
	var all []*models.Purchase
	for _, p := range r.store.purchases {
		if p.Status == status {
			v := *p
			all = append(all, &v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePurchaseRepo) Update(ctx context.Context, purchase *models.Purchase) error {
	if _, ok := r.store.purchases[purchase.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	v := *purchase
	r.store.purchases[purchase.ID] = &v
	return nil
}

// ---- withdrawal repository ----

type fakeWithdrawalRepo struct {
	store *fakeStore
}

func (r *fakeWithdrawalRepo) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.ID = r.store.id()
	if withdrawal.CreatedAt.IsZero() {
		withdrawal.CreatedAt = time.Now()
	}
	v := *withdrawal
	r.store.withdrawals[withdrawal.ID] = &v
	return nil
}

func (r *fakeWithdrawalRepo) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	w, ok := r.store.withdrawals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v := *w
	return &v, nil
}

func (r *fakeWithdrawalRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, w := range r.store.withdrawals {
		if w.UserID == userID {
			v := *w
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWithdrawalRepo) ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, w := range r.store.withdrawals {
		if w.UserID == userID && w.Status == status {
			v := *w
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWithdrawalRepo) List(ctx context.Context, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var all []*models.Withdrawal
	for _, w := range r.store.withdrawals {
		v := *w
		all = append(all, &v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeWithdrawalRepo) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	if _, ok := r.store.withdrawals[withdrawal.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	v := *withdrawal
	r.store.withdrawals[withdrawal.ID] = &v
	return nil
}
