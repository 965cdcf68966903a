package emailverification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepositoryContract runs the behaviour every EmailVerificationRepository
// must share. newRepo must return an empty repository on each call.
func testRepositoryContract(t *testing.T, newRepo func(t *testing.T) EmailVerificationRepository) {
	ctx := context.Background()

	t.Run("UpsertCreatesPendingRecord", func(t *testing.T) {
		repo := newRepo(t)

		rec, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "a@example.com", rec.Email)
		assert.Equal(t, "T1", rec.Token)
		assert.False(t, rec.IsVerified)
		assert.Nil(t, rec.VerifiedAt)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("UpsertOverwritesToken", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		second, err := repo.Upsert(ctx, "a@example.com", "T2")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "T2", second.Token)

		_, err = repo.FindByToken(ctx, "T1")
		assert.ErrorIs(t, err, ErrRecordNotFound)

		found, err := repo.FindByToken(ctx, "T2")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", found.Email)
	})

	t.Run("UpsertIsIdempotent", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		rec, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		assert.Equal(t, "T1", rec.Token)
		assert.False(t, rec.IsVerified)
	})

	t.Run("DuplicateTokenAcrossEmails", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, "b@example.com", "T1")
		assert.ErrorIs(t, err, ErrDuplicateToken)

		_, err = repo.FindByEmail(ctx, "b@example.com")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("FindByUnknownToken", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByToken(ctx, "never-issued")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("MarkVerifiedClearsToken", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		rec, err := repo.FindByToken(ctx, "T1")
		require.NoError(t, err)

		require.NoError(t, repo.MarkVerified(ctx, rec))
		assert.True(t, rec.IsVerified)
		assert.Empty(t, rec.Token)
		assert.NotNil(t, rec.VerifiedAt)

		stored, err := repo.FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.True(t, stored.IsVerified)
		assert.Empty(t, stored.Token)
		assert.NotNil(t, stored.VerifiedAt)

		_, err = repo.FindByToken(ctx, "T1")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("MarkVerifiedWithStaleToken", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		stale, err := repo.FindByToken(ctx, "T1")
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, "a@example.com", "T2")
		require.NoError(t, err)

		err = repo.MarkVerified(ctx, stale)
		assert.ErrorIs(t, err, ErrRecordNotFound)

		stored, err := repo.FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.False(t, stored.IsVerified)
		assert.Equal(t, "T2", stored.Token)
	})

	t.Run("VerifiedRecordsReleaseTheirToken", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, "b@example.com", "T2")
		require.NoError(t, err)

		for _, token := range []string{"T1", "T2"} {
			rec, err := repo.FindByToken(ctx, token)
			require.NoError(t, err)
			require.NoError(t, repo.MarkVerified(ctx, rec))
		}
	})

	t.Run("DeleteIfToken", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, "a@example.com", "T2")
		require.NoError(t, err)

		// A stale token leaves the record alone
		err = repo.DeleteIfToken(ctx, "a@example.com", "T1")
		assert.ErrorIs(t, err, ErrRecordNotFound)
		stored, err := repo.FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "T2", stored.Token)

		require.NoError(t, repo.DeleteIfToken(ctx, "a@example.com", "T2"))
		_, err = repo.FindByEmail(ctx, "a@example.com")
		assert.ErrorIs(t, err, ErrRecordNotFound)

		err = repo.DeleteIfToken(ctx, "missing@example.com", "T3")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("RestoreToken", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, "a@example.com", "T2")
		require.NoError(t, err)

		require.NoError(t, repo.RestoreToken(ctx, "a@example.com", "T2", "T1"))

		restored, err := repo.FindByToken(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, restored.ID)
		assert.False(t, restored.IsVerified)

		_, err = repo.FindByToken(ctx, "T2")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("RestoreTokenAfterLaterWrite", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Upsert(ctx, "a@example.com", "T1")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, "a@example.com", "T2")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, "a@example.com", "T3")
		require.NoError(t, err)

		err = repo.RestoreToken(ctx, "a@example.com", "T2", "T1")
		assert.ErrorIs(t, err, ErrRecordNotFound)

		stored, err := repo.FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "T3", stored.Token)
	})
}
