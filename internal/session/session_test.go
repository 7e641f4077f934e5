package session

import (
	"context"
	"testing"

	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := Session{UserID: "u1", Email: "buyer@example.com"}
	require.NoError(t, store.Save(ctx, "tok", sess, 0))

	loaded, err := store.Load(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, sess, loaded)

	require.NoError(t, store.Clear(ctx, "tok"))
	_, err = store.Load(ctx, "tok")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestAuthenticated(t *testing.T) {
	require.False(t, Session{}.Authenticated())
	require.False(t, Session{Email: "buyer@example.com"}.Authenticated())
	require.True(t, Session{UserID: "u1"}.Authenticated())
}
