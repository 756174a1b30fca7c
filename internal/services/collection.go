package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/core/integrity"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/metrics"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/validate"
)

type CollectionService struct {
	deps Deps
	log  zerolog.Logger
}

func NewCollectionService(d Deps) *CollectionService {
	d = d.withDefaults()
	return &CollectionService{deps: d, log: d.Log.With().Str("component", "collections").Logger()}
}

func (s *CollectionService) Create(ctx context.Context, in model.CollectionInput) (model.Collection, error) {
	if err := validate.CollectionInput(in); err != nil {
		return model.Collection{}, err
	}
	var out model.Collection
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		if err := integrity.CheckCollectionName(tx, in.Name); err != nil {
			return err
		}
		collections := tx.Collections()
		id, err := ids.Allocate(s.deps.IDs, func(id model.CollectionID) bool {
			_, taken := collections.Get(id)
			return taken
		})
		if err != nil {
			return err
		}
		out = collections.Put(model.Collection{
			ID:          id,
			Name:        in.Name,
			Description: in.Description,
			CreatedAt:   s.deps.Now(),
		})
		return nil
	})
	metrics.ObserveMutation("collection", "create", err)
	if err != nil {
		s.log.Warn().Err(err).Str("name", in.Name).Msg("create collection failed")
		return model.Collection{}, err
	}
	s.log.Info().Str("collection_id", string(out.ID)).Msg("collection created")
	return out, nil
}

func (s *CollectionService) Get(ctx context.Context, id model.CollectionID) (model.Collection, error) {
	var out model.Collection
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		c, ok := tx.Collections().Get(id)
		if !ok {
			return core.NewNotFoundError(core.KindCollection, id)
		}
		out = c
		return nil
	})
	return out, err
}

// List returns collections in creation order.
func (s *CollectionService) List(ctx context.Context) ([]model.Collection, error) {
	var out []model.Collection
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		out = tx.Collections().List()
		return nil
	})
	return out, err
}

// Delete removes the collection and detaches its prompts, which keep
// existing with no collection. It reports whether the collection existed.
func (s *CollectionService) Delete(ctx context.Context, id model.CollectionID) (bool, error) {
	var res integrity.CollectionDeletion
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		res = integrity.DeleteCollection(tx, id, s.deps.Now())
		return nil
	})
	metrics.ObserveMutation("collection", "delete", err)
	if err != nil {
		return false, err
	}
	if res.Existed {
		metrics.PromptsOrphaned(len(res.Orphaned))
		s.log.Info().
			Str("collection_id", string(id)).
			Int("prompts_detached", len(res.Orphaned)).
			Msg("collection deleted")
	}
	return res.Existed, nil
}
