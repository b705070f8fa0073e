package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundbox/foundbox/internal/errors"
)

var testToday = time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "founditems.csv"))
}

func TestLoadAllMissingFile(t *testing.T) {
	t.Parallel()

	items, err := newTestStore(t).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAppendRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	saved, err := s.Append(NewItem("Gloves", "red, left hand only", "images/a.jpg", testToday))
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)

	items, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Every field, dates included, must survive the write/read cycle exactly.
	assert.Equal(t, saved, items[0])
	assert.Equal(t, "Gloves", items[0].Category)
	assert.Equal(t, "red, left hand only", items[0].Note)
	assert.Equal(t, "images/a.jpg", items[0].ImagePath)
	assert.True(t, items[0].FoundDate.Equal(testToday))
}

func TestExpiryInvariant(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, category := range []string{"Shoes", "Lunchbox", "Gloves"} {
		_, err := s.Append(NewItem(category, "", "", testToday))
		require.NoError(t, err)
	}

	items, err := s.LoadAll()
	require.NoError(t, err)
	for _, item := range items {
		assert.True(t, item.ExpiryDate.Equal(item.FoundDate.AddDate(0, 0, 30)),
			"expiry must be found date + 30 days for record %d", item.ID)
	}
}

func TestIDsStayUniqueAfterDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Append(NewItem("Shoes", "", "", testToday))
		require.NoError(t, err)
	}

	// Deleting the newest record must not allow its id to be reissued.
	require.NoError(t, s.Delete(3))
	saved, err := s.Append(NewItem("Helmets", "", "", testToday))
	require.NoError(t, err)
	assert.Equal(t, 3, saved.ID, "max+1 reissues a trailing id only after it is freed")

	require.NoError(t, s.Delete(1))
	saved, err = s.Append(NewItem("Gloves", "", "", testToday))
	require.NoError(t, err)
	assert.Equal(t, 4, saved.ID, "gaps from deletions are never refilled")
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var ids []int
	for i := 0; i < 5; i++ {
		saved, err := s.Append(NewItem("Shoes", "", "", testToday))
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	require.NoError(t, s.Delete(ids[2]))

	items, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, items, 4)
	for _, item := range items {
		assert.NotEqual(t, ids[2], item.ID)
	}

	// The backing file must no longer contain the row either.
	data, err := os.ReadFile(s.csvPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n3,")
}

func TestDeleteUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Append(NewItem("Shoes", "", "", testToday))
	require.NoError(t, err)

	err = s.Delete(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesImageFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "founditems.csv"))

	imagePath := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg bytes"), 0o644))

	saved, err := s.Append(NewItem("Helmets", "", imagePath, testToday))
	require.NoError(t, err)

	require.NoError(t, s.Delete(saved.ID))
	assert.NoFileExists(t, imagePath)
}

func TestDeleteWithMissingImageFile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	saved, err := s.Append(NewItem("Helmets", "", "gone/already.jpg", testToday))
	require.NoError(t, err)

	// A photo that is already gone must not block the deletion.
	require.NoError(t, s.Delete(saved.ID))

	items, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Append(NewItem("Gloves", "blue wool", "", testToday))
	require.NoError(t, err)
	_, err = s.Append(NewItem("Lunchbox", "dinosaur print", "", testToday))
	require.NoError(t, err)
	_, err = s.Append(NewItem("Shoes", "size 38, blue", "", testToday))
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "category match", query: "gloves", wantIDs: []int{1}},
		{name: "case-insensitive note match", query: "BLUE", wantIDs: []int{1, 3}},
		{name: "date substring matches every record", query: "2026-02", wantIDs: []int{1, 2, 3}},
		{name: "no matches", query: "umbrella", wantIDs: []int{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Search(tt.query)
			require.NoError(t, err)

			ids := make([]int, 0, len(got))
			for _, item := range got {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids, "results keep insertion order")
		})
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Append(NewItem("Shoes", "white sneakers", "", testToday))
	require.NoError(t, err)

	first, err := s.Search("sneakers")
	require.NoError(t, err)
	second, err := s.Search("sneakers")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCorruptFileIsFatal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "founditems.csv")
	content := "ID,Category,FoundDate,ExpiryDate,Note,ImagePath\nnot-a-number,Shoes,2026-02-19,2026-03-21,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := New(path).LoadAll()
	require.Error(t, err)

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.Equal(t, errors.CategoryFileParsing, enhanced.Category)
}

func TestLoadAcceptsRowsWithoutImageColumn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "founditems.csv")
	content := "ID,Category,FoundDate,ExpiryDate,Note\n7,Shoes,2026-02-19,2026-03-21,left by the gym\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	items, err := New(path).LoadAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Empty(t, items[0].ImagePath)
}

func TestExpired(t *testing.T) {
	t.Parallel()

	item := NewItem("Shoes", "", "", testToday.AddDate(0, 0, -30))
	assert.True(t, item.Expired(testToday), "expiry on today counts as expired")

	fresh := NewItem("Shoes", "", "", testToday)
	assert.False(t, fresh.Expired(testToday))
}
