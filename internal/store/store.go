// Package store owns the backing document that holds the task collection.
//
// Every operation loads the document afresh and every mutation writes it back
// in full. Mutations run inside a single mutation section so concurrent
// read-modify-write cycles are strictly ordered; reads skip the section and
// see whichever complete document was last saved.
package store

import (
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"todo-app/internal/domain"
	"todo-app/internal/errors"
	"todo-app/internal/logging"
)

// ErrUnchanged may be returned by a mutation callback to skip the write.
var ErrUnchanged = stderrors.New("store: document unchanged")

// Backend persists the raw document bytes. Load must report a missing document
// with an error matching fs.ErrNotExist. Save must replace the document
// atomically.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Store provides atomic whole-document reads and writes over a Backend.
type Store struct {
	backend     Backend
	section     chan struct{}
	lockTimeout time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithLockTimeout bounds how long a mutation waits to enter the mutation section.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// New creates a Store over the given backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		section: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// ReadAll returns the persisted task collection.
func (s *Store) ReadAll(ctx context.Context) (domain.TaskCollection, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Tasks()
}

// WriteAll replaces the persisted task collection. Sibling top-level fields of
// a readable document are kept; an unreadable document is overwritten.
func (s *Store) WriteAll(ctx context.Context, tasks domain.TaskCollection) error {
	release, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	doc, err := s.load(ctx)
	if err != nil {
		logging.Debugf("write all: starting from an empty document: %v", err)
		doc = NewDocument()
	}
	if err := doc.SetTasks(tasks); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// Mutate runs fn inside the mutation section with the current collection and
// persists what it returns. If fn fails, or returns ErrUnchanged, nothing is
// written.
func (s *Store) Mutate(ctx context.Context, fn func(domain.TaskCollection) (domain.TaskCollection, error)) error {
	return s.MutateDocument(ctx, func(doc *Document) error {
		tasks, err := doc.Tasks()
		if err != nil {
			return err
		}
		next, err := fn(tasks)
		if err != nil {
			return err
		}
		return doc.SetTasks(next)
	})
}

// ReadDocument returns the whole persisted document.
func (s *Store) ReadDocument(ctx context.Context) (*Document, error) {
	return s.load(ctx)
}

// MutateDocument is Mutate over the whole document. The passthrough API uses it
// so its writes are ordered with task mutations.
func (s *Store) MutateDocument(ctx context.Context, fn func(*Document) error) error {
	release, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		if stderrors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}
	return s.save(ctx, doc)
}

// Ensure creates a document with an empty task collection when none exists.
// An existing document is never rewritten. It reports whether it created one.
func (s *Store) Ensure(ctx context.Context) (bool, error) {
	release, err := s.enter(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	_, err = s.backend.Load(ctx)
	switch {
	case err == nil:
		return false, nil
	case stderrors.Is(err, fs.ErrNotExist):
		if err := s.save(ctx, NewDocument()); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, errors.NewStorageReadError("read document", err)
	}
}

// enter acquires the mutation section, giving up when ctx is done or the lock
// timeout passes.
func (s *Store) enter(ctx context.Context) (func(), error) {
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}
	select {
	case s.section <- struct{}{}:
		return func() { <-s.section }, nil
	case <-ctx.Done():
		return nil, errors.NewTimeoutError("enter mutation section", ctx.Err())
	}
}

func (s *Store) load(ctx context.Context) (*Document, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewStorageReadError("document does not exist", err)
		}
		return nil, errors.NewStorageReadError("read document", err)
	}
	return ParseDocument(data)
}

func (s *Store) save(ctx context.Context, doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return errors.NewStorageWriteError("encode document", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return errors.NewStorageWriteError("replace document", err)
	}
	return nil
}
