package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSlides() []SlideRef {
	return []SlideRef{
		{Seq: 1, Path: "/decks/talk/page_1.jpg"},
		{Seq: 2, Path: "/decks/talk/page_2.jpg"},
		{Seq: 10, Path: "/decks/talk/page_10.jpg"},
	}
}

func TestDeckRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Decks()

	d := &Deck{Name: "talk", SourceDir: "/decks/talk"}
	require.NoError(t, repo.Create(d, sampleSlides()))

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, 3, d.SlideCount)

	got, err := repo.GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "talk", got.Name)
	assert.Equal(t, "/decks/talk", got.SourceDir)
	assert.Equal(t, 3, got.SlideCount)
	assert.False(t, got.CreatedAt.IsZero())

	slides, err := repo.Slides(d.ID)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	for i, sl := range slides {
		assert.Equal(t, i, sl.Position)
	}
	assert.Equal(t, 10, slides[2].Seq)
	assert.Equal(t, "/decks/talk/page_10.jpg", slides[2].Path)
}

func TestDeckRepository_CreateDuplicateNameRollsBack(t *testing.T) {
	s := newTestStore(t)
	repo := s.Decks()

	require.NoError(t, repo.Create(&Deck{Name: "talk", SourceDir: "/a"}, sampleSlides()))

	dup := &Deck{Name: "talk", SourceDir: "/b"}
	require.Error(t, repo.Create(dup, sampleSlides()))

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM slides WHERE deck_id = ?`, dup.ID).Scan(&n))
	assert.Zero(t, n)
}

func TestDeckRepository_Lookup(t *testing.T) {
	s := newTestStore(t)
	repo := s.Decks()

	d := &Deck{Name: "talk", SourceDir: "/decks/talk"}
	require.NoError(t, repo.Create(d, sampleSlides()))

	t.Run("by name", func(t *testing.T) {
		got, err := repo.GetByName("talk")
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
	})

	t.Run("resolve by id or name", func(t *testing.T) {
		byID, err := repo.Resolve(d.ID)
		require.NoError(t, err)
		byName, err := repo.Resolve("talk")
		require.NoError(t, err)
		assert.Equal(t, byID.ID, byName.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetByID("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.Resolve("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.Slides("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeckRepository_ListAndDelete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Decks()

	a := &Deck{Name: "a", SourceDir: "/a"}
	b := &Deck{Name: "b", SourceDir: "/b"}
	require.NoError(t, repo.Create(a, sampleSlides()))
	require.NoError(t, repo.Create(b, sampleSlides()[:1]))

	decks, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, decks, 2)

	_, err = s.Sessions().Start(a.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(a.ID))
	assert.ErrorIs(t, repo.Delete(a.ID), ErrNotFound)

	decks, err = repo.List()
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "b", decks[0].Name)

	var slides, sessions int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM slides WHERE deck_id = ?`, a.ID).Scan(&slides))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM sessions WHERE deck_id = ?`, a.ID).Scan(&sessions))
	assert.Zero(t, slides, "slides should cascade")
	assert.Zero(t, sessions, "sessions should cascade")
}
