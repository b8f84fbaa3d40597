package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_AbsentFileIsZeroRecord(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "last_seen.txt"))

	record, err := store.Get()
	assert.NoError(t, err)
	assert.True(t, record.Zero())
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "last_seen.txt"))

	want := Record{Title: "7-Day Asia Explorer", Price: 950}
	assert.NoError(t, store.Set(want))

	got, err := store.Get()
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_Overwrite(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "last_seen.txt"))

	assert.NoError(t, store.Set(Record{Title: "7-Day Asia Explorer", Price: 950}))
	assert.NoError(t, store.Set(Record{Title: "7-Day Asia Explorer", Price: 880}))

	got, err := store.Get()
	assert.NoError(t, err)
	assert.Equal(t, 880, got.Price)
}

func TestFileStore_LegacyTitleOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.txt")
	assert.NoError(t, os.WriteFile(path, []byte("7-Day Asia Explorer\n"), 0644))

	store := NewFileStore(path)
	got, err := store.Get()
	assert.NoError(t, err)
	assert.Equal(t, "7-Day Asia Explorer", got.Title)
	assert.Equal(t, 0, got.Price)
}

func TestFileStore_GarbagePriceLineReadsAsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.txt")
	assert.NoError(t, os.WriteFile(path, []byte("7-Day Asia Explorer\nnot-a-number\n"), 0644))

	store := NewFileStore(path)
	got, err := store.Get()
	assert.NoError(t, err)
	assert.Equal(t, "7-Day Asia Explorer", got.Title)
	assert.Equal(t, 0, got.Price)
}
