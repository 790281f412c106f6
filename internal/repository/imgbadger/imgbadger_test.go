package imgbadger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *BadgerRepo {
	t.Helper()

	repo, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repo.Close())
	})
	return repo
}

func testRecord(id, user, tags string) *model.ImageRecord {
	return &model.ImageRecord{
		ImageID:     id,
		UserID:      user,
		Filename:    "cat.png",
		StorageKey:  "images/" + user + "/" + id + ".png",
		ContentType: model.PNG,
		Size:        20,
		UploadDate:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Tags:        tags,
	}
}

func matchAll(*model.ImageRecord) bool { return true }

func TestBadgerRepo_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	want := testRecord("img-1", "u1", "a,b")
	desc := "fluffy"
	width := 640
	want.Description = &desc
	want.Width = &width

	require.NoError(t, repo.Put(ctx, want))

	got, err := repo.Get(ctx, "img-1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, repo.Delete(ctx, "img-1"))

	_, err = repo.Get(ctx, "img-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerRepo_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrNotFound)
}

// Pagination law: resumed scans return every matching row exactly once.
func TestBadgerRepo_ScanPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Put(ctx, testRecord(fmt.Sprintf("img-%d", i), "u1", "a")))
	}
	// noise rows that the filter must skip without eating into the limit
	require.NoError(t, repo.Put(ctx, testRecord("img-0x", "u2", "a")))
	require.NoError(t, repo.Put(ctx, testRecord("img-3x", "u2", "a")))

	owner := func(r *model.ImageRecord) bool { return r.UserID == "u1" }

	var seen []string
	cursor := ""
	pages := 0
	for {
		records, next, err := repo.Scan(ctx, owner, 2, cursor)
		require.NoError(t, err)
		require.LessOrEqual(t, len(records), 2)
		for _, r := range records {
			seen = append(seen, r.ImageID)
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	require.Equal(t, 3, pages)
	require.Equal(t, []string{"img-0", "img-1", "img-2", "img-3", "img-4"}, seen)
}

func TestBadgerRepo_ScanExactFit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Put(ctx, testRecord("img-1", "u1", "")))
	require.NoError(t, repo.Put(ctx, testRecord("img-2", "u1", "")))

	records, next, err := repo.Scan(ctx, matchAll, 2, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Empty(t, next, "no continuation token when the table ends at the page boundary")
}

func TestBadgerRepo_ScanEmpty(t *testing.T) {
	repo := newTestRepo(t)

	records, next, err := repo.Scan(context.Background(), matchAll, 10, "")
	require.NoError(t, err)
	require.Empty(t, records)
	require.Empty(t, next)
}

func TestBadgerRepo_ScanCanceledContext(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.Put(ctx, testRecord("img-1", "u1", "")))

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, _, err := repo.Scan(canceled, matchAll, 10, "")
	require.ErrorIs(t, err, context.Canceled)
}
