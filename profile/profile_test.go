package profile

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/testutil"
)

type insertCall struct {
	collection string
	fields     map[string]any
}

type fakeStore struct {
	inserts []insertCall
	err     error
}

func (f *fakeStore) Insert(_ context.Context, collection string, fields map[string]any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inserts = append(f.inserts, insertCall{collection, fields})
	return "doc-1", nil
}

type countingStore struct {
	fakeStore
	count int
}

func (c *countingStore) Count(_ context.Context, _, _, _ string) (int, error) {
	return c.count, nil
}

func TestFields(t *testing.T) {
	got := Fields(&identity.Identity{
		UID:         "uid-1",
		Email:       "janedoe@gmail.com",
		ProviderID:  identity.ProviderPassword,
		AccessToken: "tok",
	})

	assert.Equal(t, map[string]any{
		"displayName": nil,
		"accessToken": "tok",
		"email":       "janedoe@gmail.com",
		"providerId":  "password",
		"uid":         "uid-1",
		"phoneNumber": nil,
	}, got)
}

func TestUpsert(t *testing.T) {
	store := &fakeStore{}
	w := NewWriter(store, testutil.MakeNoopLogger())

	id := &identity.Identity{UID: "uid-1", Email: "janedoe@gmail.com", DisplayName: "Jane", ProviderID: identity.ProviderGoogle}
	require.NoError(t, w.Upsert(context.Background(), id))
	require.NoError(t, w.Upsert(context.Background(), id))

	require.Len(t, store.inserts, 2, "every call inserts")
	assert.Equal(t, Collection, store.inserts[0].collection)
	assert.Equal(t, "Jane", store.inserts[0].fields[FieldDisplayName])
}

func TestUpsertFailure(t *testing.T) {
	cause := errors.New("permission denied")
	w := NewWriter(&fakeStore{err: cause}, testutil.MakeNoopLogger())

	err := w.Upsert(context.Background(), &identity.Identity{UID: "uid-1"})
	assert.ErrorIs(t, err, cause)
}

func TestUpsertFlagsDuplicate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store := &countingStore{count: 1}
	w := NewWriter(store, logger)

	require.NoError(t, w.Upsert(context.Background(), &identity.Identity{UID: "uid-1"}))
	assert.Len(t, store.inserts, 1, "duplicates are flagged, not skipped")
	assert.Contains(t, buf.String(), "duplicate profile document")
	assert.Contains(t, buf.String(), "uid=uid-1")
}
