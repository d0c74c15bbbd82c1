package storage

import (
	"context"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCommits(t *testing.T, dir string) int {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	iter, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)

	count := 0
	require.NoError(t, iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	}))
	return count
}

func TestGitStoreCommitsArticles(t *testing.T) {
	dir := t.TempDir()
	metrics := NewSimpleMetricsCollector()
	store, err := NewGitStore(dir, "run-1", metrics)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Persist(ctx, cleanedArticle("Gopher", "gophers burrowing rodents"))
	require.NoError(t, err)
	first, err := store.Head()
	require.NoError(t, err)

	_, err = store.Persist(ctx, cleanedArticle("Go", "go statically typed language"))
	require.NoError(t, err)
	assert.Equal(t, 2, countCommits(t, dir))

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "Add article Go")
	assert.Contains(t, commit.Message, "Run: run-1")
	assert.Equal(t, commitAuthorName, commit.Author.Name)
	assert.NotEqual(t, first, ref.Hash().String())

	assert.Equal(t, 2, metrics.Summary()["git"]["commit"].SuccessCount)
}

func TestGitStoreUnchangedArticleIsNoop(t *testing.T) {
	dir := t.TempDir()
	store, err := NewGitStore(dir, "", nil)
	require.NoError(t, err)

	ctx := context.Background()
	article := cleanedArticle("Gopher", "gophers burrowing rodents")
	_, err = store.Persist(ctx, article)
	require.NoError(t, err)
	_, err = store.Persist(ctx, article)
	require.NoError(t, err)

	assert.Equal(t, 1, countCommits(t, dir))
}

func TestGitStoreReopensExistingRepository(t *testing.T) {
	dir := t.TempDir()
	store, err := NewGitStore(dir, "", nil)
	require.NoError(t, err)
	_, err = store.Persist(context.Background(), cleanedArticle("A", "alpha"))
	require.NoError(t, err)

	reopened, err := NewGitStore(dir, "", nil)
	require.NoError(t, err)
	_, err = reopened.Persist(context.Background(), cleanedArticle("B", "beta"))
	require.NoError(t, err)

	assert.Equal(t, 2, countCommits(t, dir))
}
