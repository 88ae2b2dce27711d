package storage

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"gulfofmexico/interpreter-go/pkg/diag"
)

// GitStore layers commit history over a FileStore, so every persisted
// write is recorded and the store survives as a plain repository. The
// public registry the language imagines is, for one machine, just this.
type GitStore struct {
	files *FileStore
	repo  *git.Repository
}

func NewGitStore(dir string) (*GitStore, error) {
	files, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	repo, openErr := git.PlainOpen(dir)
	if errors.Is(openErr, git.ErrRepositoryNotExists) {
		repo, openErr = git.PlainInit(dir, false)
	}
	if openErr != nil {
		return nil, &diag.Error{Kind: diag.KindStorage, Message: "cannot open store repository", Cause: openErr}
	}
	return &GitStore{files: files, repo: repo}, nil
}

func (s *GitStore) Put(key string, confidence int, data []byte) error {
	if err := s.files.Put(key, confidence, data); err != nil {
		return err
	}
	return s.commit(key)
}

func (s *GitStore) Get(key string) (Entry, bool, error) {
	return s.files.Get(key)
}

func (s *GitStore) Keys() ([]string, error) {
	return s.files.Keys()
}

func (s *GitStore) commit(key string) error {
	wt, err := s.repo.Worktree()
	if err != nil {
		return &diag.Error{Kind: diag.KindStorage, Message: "cannot open worktree", Cause: err}
	}
	rel := hex.EncodeToString([]byte(key)) + fileExt
	if _, err := wt.Add(rel); err != nil {
		return &diag.Error{Kind: diag.KindStorage, Message: "cannot stage " + key, Cause: err}
	}
	_, err = wt.Commit("persist "+key, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "gom",
			Email: "gom@localhost",
			When:  time.Now(),
		},
	})
	if err != nil && !errors.Is(err, git.ErrEmptyCommit) {
		return &diag.Error{Kind: diag.KindStorage, Message: "cannot commit " + key, Cause: err}
	}
	return nil
}
