package database

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) FileStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "opencc.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMarkAndCheckProcessed(t *testing.T) {
	store := newStore(t)

	ok, err := store.IsProcessed("/in/a.txt", 1, "t2s")
	require.NoError(t, err)
	assert.False(t, ok)

	// 高位为 1 的指纹也要能存取
	const fp = uint64(0xfedcba9876543210)
	require.NoError(t, store.MarkProcessed(Record{Path: "/in/a.txt", Fingerprint: fp, Preset: "t2s", OutputPath: "/out/a.txt"}))

	ok, err = store.IsProcessed("/in/a.txt", fp, "t2s")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IsProcessed("/in/a.txt", fp+1, "t2s")
	require.NoError(t, err)
	assert.False(t, ok, "content changed")

	ok, err = store.IsProcessed("/in/a.txt", fp, "s2t")
	require.NoError(t, err)
	assert.False(t, ok, "different preset")
}

func TestMarkProcessedUpdatesRecord(t *testing.T) {
	store := newStore(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.MarkProcessed(Record{Path: "/in/b.srt", Fingerprint: 1, Preset: "t2s", OutputPath: "/out/b.srt"}))
	require.NoError(t, store.MarkProcessed(Record{Path: "/in/b.srt", Fingerprint: 2, Preset: "tw2sp", OutputPath: "/out/b2.srt", ProcessedAt: at}))

	rec, err := store.Get("/in/b.srt")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint64(2), rec.Fingerprint)
	assert.Equal(t, "tw2sp", rec.Preset)
	assert.Equal(t, "/out/b2.srt", rec.OutputPath)
	assert.True(t, rec.ProcessedAt.Equal(at))

	missing, err := store.Get("/in/none.txt")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
