package writings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/ropesim/internal/kv"
)

// StoreKey is the single key holding the whole list.
const StoreKey = "writings"

// Repository reads and rewrites the list as one value. The mutex serializes
// read-modify-write within this process only; concurrent writers in other
// processes still race and the last one wins.
type Repository struct {
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	mu     sync.Mutex
}

func NewRepository(store kv.Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns the records most recent first. A missing key is an empty list.
func (r *Repository) List(ctx context.Context) ([]Writing, error) {
	raw, err := r.store.Get(ctx, StoreKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Writing{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []Writing
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("writings: decode list: %w", err)
	}
	if list == nil {
		list = []Writing{}
	}
	return list, nil
}

func (r *Repository) Create(ctx context.Context, title, content string) (Writing, error) {
	if title == "" || content == "" {
		return Writing{}, ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.List(ctx)
	if err != nil {
		return Writing{}, err
	}

	now := r.now().UTC()
	w := Writing{
		ID:        r.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	list = append([]Writing{w}, list...)

	if err := r.save(ctx, list); err != nil {
		return Writing{}, err
	}
	r.logger.Info("writing created", zap.String("id", w.ID), zap.Int("total", len(list)))
	return w, nil
}

// Delete removes every record with the id. Unknown ids are not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, w := range list {
		if w.ID != id {
			kept = append(kept, w)
		}
	}

	if err := r.save(ctx, kept); err != nil {
		return err
	}
	r.logger.Info("writing deleted",
		zap.String("id", id),
		zap.Bool("found", len(kept) < len(list)),
	)
	return nil
}

func (r *Repository) save(ctx context.Context, list []Writing) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("writings: encode list: %w", err)
	}
	return r.store.Set(ctx, StoreKey, data)
}
