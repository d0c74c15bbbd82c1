package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"
)

const (
	commitAuthorName  = "word2vec-corpus"
	commitAuthorEmail = "corpus@word2vec.local"
)

// GitStore persists articles through a FileStore and commits each one to a
// git repository rooted at the article directory
type GitStore struct {
	files    *FileStore
	repo     *git.Repository
	repoPath string
	runID    string
	metrics  MetricsCollector
	mu       sync.Mutex
}

// NewGitStore opens the repository at dir, initializing one if dir is not yet a repository
func NewGitStore(dir, runID string, metrics MetricsCollector) (*GitStore, error) {
	files, err := NewFileStore(dir, metrics)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		log.Info().Str("path", dir).Msg("Initializing article repository")
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &GitStore{
		files:    files,
		repo:     repo,
		repoPath: dir,
		runID:    runID,
		metrics:  metrics,
	}, nil
}

// Persist writes the article and commits it. Re-saving unchanged text creates no commit.
func (g *GitStore) Persist(ctx context.Context, article *document.Article) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	path, err := g.files.Persist(ctx, article)
	if err != nil {
		return "", err
	}

	start := time.Now()
	hash, err := g.commit(path, article)
	recordMetric(g.metrics, "git", "commit", start, err)
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("title", article.Title).
		Str("commit", hash).
		Msg("Article committed")
	return path, nil
}

// Head returns the current commit hash
func (g *GitStore) Head() (string, error) {
	ref, err := g.repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

func (g *GitStore) commit(path string, article *document.Article) (string, error) {
	w, err := g.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	rel, err := filepath.Rel(g.repoPath, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s in repository: %w", path, err)
	}
	if _, err := w.Add(filepath.ToSlash(rel)); err != nil {
		return "", fmt.Errorf("failed to add %s: %w", rel, err)
	}

	message := fmt.Sprintf("Add article %s", article.Title)
	if article.URL != "" {
		message += "\n\nSource: " + article.URL
	}
	if g.runID != "" {
		message += "\nRun: " + g.runID
	}

	commit, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitAuthorName,
			Email: commitAuthorEmail,
			When:  time.Now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return g.Head()
	}
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return commit.String(), nil
}
