package services

import (
	"context"
	"testing"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*fakeStore, *UserService) {
	store := newFakeStore()
	return store, NewUserService(store.repos().Users)
}

func TestListUsersPagination(t *testing.T) {
	store, svc := newUserFixture()
	for i := 0; i < 25; i++ {
		store.addUser(models.User{Name: "User", Phone: "08", ReferralCode: "X"})
	}

	out, err := svc.ListUsers(context.Background(), &ListUsersInput{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, out.Users, 10)
	assert.Equal(t, int64(25), out.Total)
	assert.Equal(t, 3, out.TotalPages)

	last, err := svc.ListUsers(context.Background(), &ListUsersInput{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Users, 5)
}

func TestUpdateUserByAdmin(t *testing.T) {
	store, svc := newUserFixture()
	admin := store.addUser(models.User{Name: "Admin", Phone: "08A", ReferralCode: "A", IsAdmin: true})
	user := store.addUser(models.User{Name: "Pat", Phone: "08B", ReferralCode: "B"})

	name := "Patricia"
	promote := true
	updated, err := svc.UpdateUserByAdmin(context.Background(), user.ID, admin.ID, &UpdateUserByAdminInput{
		Name:    &name,
		IsAdmin: &promote,
	})
	require.NoError(t, err)
	assert.Equal(t, "Patricia", updated.Name)
	assert.True(t, updated.IsAdmin)

	// Admins cannot change their own role.
	_, err = svc.UpdateUserByAdmin(context.Background(), admin.ID, admin.ID, &UpdateUserByAdminInput{IsAdmin: &promote})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)

	// Renaming yourself is fine.
	_, err = svc.UpdateUserByAdmin(context.Background(), admin.ID, admin.ID, &UpdateUserByAdminInput{Name: &name})
	assert.NoError(t, err)
}

func TestDeleteUserGuards(t *testing.T) {
	store, svc := newUserFixture()
	admin := store.addUser(models.User{Name: "Admin", Phone: "08A", ReferralCode: "A", IsAdmin: true})
	other := store.addUser(models.User{Name: "Other", Phone: "08B", ReferralCode: "B", IsAdmin: true})
	user := store.addUser(models.User{Name: "Pat", Phone: "08C", ReferralCode: "C"})

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin.ID, admin.ID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), other.ID, admin.ID), ErrCannotDeleteAdmin)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 404, admin.ID), ErrUserNotFoundSvc)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID, admin.ID))
	_, ok := store.users[user.ID]
	assert.False(t, ok)
}

func TestChangePassword(t *testing.T) {
	store, svc := newUserFixture()
	hash, _ := password.Hash("oldpassword")
	user := store.addUser(models.User{Name: "Pat", Phone: "08B", ReferralCode: "B", Password: hash})

	err := svc.ChangePassword(context.Background(), user.ID, &ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(context.Background(), user.ID, &ChangePasswordInput{
		OldPassword: "oldpassword",
		NewPassword: "short",
	})
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, &ChangePasswordInput{
		OldPassword: "oldpassword",
		NewPassword: "newpassword",
	})
	require.NoError(t, err)
	assert.True(t, password.Verify("newpassword", store.users[user.ID].Password))
}
