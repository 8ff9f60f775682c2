package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/testutil"
)

func TestResolveCategory(t *testing.T) {
	assert.Equal(t, "social", application.ResolveCategory("social", "ignored"))
	assert.Equal(t, "Crypto wallet", application.ResolveCategory("other", " Crypto wallet "))
	assert.Equal(t, "Crypto wallet", application.ResolveCategory("Other", "Crypto wallet"))
	assert.Equal(t, "", application.ResolveCategory("other", ""))
}

func TestAccountService_Validation(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, store, "Ada", "ada@example.com")
	svc := application.NewAccountService(store, nil)

	_, err := svc.Create(ctx, u.ID, application.AccountInput{ServiceName: "Gmail", Category: "email", Action: "delete"})
	assert.ErrorIs(t, err, application.ErrMissingInput)

	_, err = svc.Create(ctx, u.ID, application.AccountInput{ServiceName: "Gmail", Category: "email", Identifier: "ada", Action: "shred"})
	assert.ErrorIs(t, err, application.ErrInvalidAction)

	a, err := svc.Create(ctx, u.ID, application.AccountInput{ServiceName: " Gmail ", Category: "email", Identifier: "ada", Action: "DELETE"})
	require.NoError(t, err)
	assert.Equal(t, "Gmail", a.ServiceName)
	assert.Equal(t, entity.ActionDelete, a.Action)
	assert.Equal(t, entity.StatusActive, a.Status)
}

func TestAccountService_OwnershipGuard(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	ada := testutil.SeedUser(t, store, "Ada", "ada@example.com")
	bob := testutil.SeedUser(t, store, "Bob", "bob@example.com")
	acc := testutil.SeedAccount(t, store, ada.ID, "Gmail", entity.ActionDelete)
	svc := application.NewAccountService(store, nil)

	in := application.AccountInput{ServiceName: "Hijacked", Category: "email", Identifier: "bob", Action: "none"}

	_, err := svc.Get(ctx, bob.ID, acc.ID)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
	_, err = svc.Update(ctx, bob.ID, acc.ID, in)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, acc.ID), application.ErrUnauthorized)

	got, err := svc.Get(ctx, ada.ID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gmail", got.ServiceName)
	assert.Equal(t, entity.ActionDelete, got.Action)

	_, err = svc.Get(ctx, ada.ID, 9999)
	assert.ErrorIs(t, err, application.ErrNotFound)

	updated, err := svc.Update(ctx, ada.ID, acc.ID, application.AccountInput{ServiceName: "Gmail", Category: "email", Identifier: "ada2", Action: "archive"})
	require.NoError(t, err)
	assert.Equal(t, entity.ActionArchive, updated.Action)

	require.NoError(t, svc.Delete(ctx, ada.ID, acc.ID))
	list, err := svc.List(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) ContactDesignated(_ context.Context, owner *entity.User, c *entity.TrustedContact) error {
	n.calls = append(n.calls, owner.Email+"->"+c.Email)
	return n.err
}

func TestContactService_CreateNotifies(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	ada := testutil.SeedUser(t, store, "Ada", "ada@example.com")
	n := &recordingNotifier{err: errors.New("queue unavailable")}
	svc := application.NewContactService(store, n, nil)

	_, err := svc.Create(ctx, ada.ID, application.ContactInput{Name: "Carol"})
	assert.ErrorIs(t, err, application.ErrMissingInput)

	c, err := svc.Create(ctx, ada.ID, application.ContactInput{Name: "Carol", Email: "carol@example.com", IsPrimary: true})
	require.NoError(t, err)
	assert.True(t, c.IsPrimary)
	assert.Equal(t, []string{"ada@example.com->carol@example.com"}, n.calls)

	// a second primary is allowed
	_, err = svc.Create(ctx, ada.ID, application.ContactInput{Name: "Dan", Email: "dan@example.com", IsPrimary: true})
	require.NoError(t, err)
	list, err := svc.List(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestContactService_OwnershipGuard(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	ada := testutil.SeedUser(t, store, "Ada", "ada@example.com")
	bob := testutil.SeedUser(t, store, "Bob", "bob@example.com")
	c := testutil.SeedContact(t, store, ada.ID, "Carol", "carol@example.com", false)
	svc := application.NewContactService(store, nil, nil)

	_, err := svc.Update(ctx, bob.ID, c.ID, application.ContactInput{Name: "Mallory", Email: "mallory@example.com"})
	assert.ErrorIs(t, err, application.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, c.ID), application.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, ada.ID, 9999), application.ErrNotFound)

	got, err := svc.Get(ctx, ada.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", got.Email)

	updated, err := svc.Update(ctx, ada.ID, c.ID, application.ContactInput{Name: "Carol", Email: "carol@new.example.com", Relationship: "friend"})
	require.NoError(t, err)
	assert.Equal(t, "friend", updated.Relationship)

	require.NoError(t, svc.Delete(ctx, ada.ID, c.ID))
}
