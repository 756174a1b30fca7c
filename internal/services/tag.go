package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/core/tagging"
	"github.com/promptlab/promptlab/internal/metrics"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/validate"
)

type TagService struct {
	deps Deps
	tags *tagging.Engine
	log  zerolog.Logger
}

func NewTagService(d Deps) *TagService {
	d = d.withDefaults()
	return &TagService{
		deps: d,
		tags: tagging.New(d.IDs),
		log:  d.Log.With().Str("component", "tags").Logger(),
	}
}

func (s *TagService) Create(ctx context.Context, name, createdBy string) (model.Tag, error) {
	if err := validate.TagName(name); err != nil {
		return model.Tag{}, err
	}
	if err := validate.CreatedBy(createdBy); err != nil {
		return model.Tag{}, err
	}
	var out model.Tag
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.tags.Create(tx, name, createdBy, s.deps.Now())
		return err
	})
	metrics.ObserveMutation("tag", "create", err)
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("create tag failed")
		return model.Tag{}, err
	}
	s.log.Info().Str("tag_id", string(out.ID)).Msg("tag created")
	return out, nil
}

func (s *TagService) Get(ctx context.Context, id model.TagID) (model.Tag, error) {
	var out model.Tag
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		t, ok := tx.Tags().Get(id)
		if !ok {
			return core.NewNotFoundError(core.KindTag, id)
		}
		out = t
		return nil
	})
	return out, err
}

// List returns tags in creation order.
func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	var out []model.Tag
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		out = tx.Tags().List()
		return nil
	})
	return out, err
}

func (s *TagService) Rename(ctx context.Context, id model.TagID, newName string) (model.Tag, error) {
	if err := validate.TagName(newName); err != nil {
		return model.Tag{}, err
	}
	var out model.Tag
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.tags.Rename(tx, id, newName, s.deps.Now())
		return err
	})
	metrics.ObserveMutation("tag", "rename", err)
	if err != nil {
		s.log.Warn().Err(err).Str("tag_id", string(id)).Msg("rename tag failed")
		return model.Tag{}, err
	}
	s.log.Info().Str("tag_id", string(id)).Msg("tag renamed")
	return out, nil
}

// Delete removes the tag and all of its assignments.
func (s *TagService) Delete(ctx context.Context, id model.TagID) (bool, error) {
	var (
		existed    bool
		unassigned int
	)
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		existed, unassigned = s.tags.Delete(tx, id)
		return nil
	})
	metrics.ObserveMutation("tag", "delete", err)
	if err != nil {
		return false, err
	}
	if existed {
		s.log.Info().Str("tag_id", string(id)).Int("unassigned", unassigned).Msg("tag deleted")
	}
	return existed, nil
}

func (s *TagService) Assign(ctx context.Context, promptID model.PromptID, tagID model.TagID) (model.PromptTag, error) {
	var out model.PromptTag
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.tags.Assign(tx, promptID, tagID, s.deps.Now())
		return err
	})
	metrics.ObserveMutation("prompt_tag", "assign", err)
	if err != nil {
		s.log.Warn().Err(err).Str("prompt_id", string(promptID)).Str("tag_id", string(tagID)).Msg("assign tag failed")
		return model.PromptTag{}, err
	}
	s.log.Info().Str("prompt_id", string(promptID)).Str("tag_id", string(tagID)).Msg("tag assigned")
	return out, nil
}

func (s *TagService) Unassign(ctx context.Context, promptID model.PromptID, tagID model.TagID) (model.PromptTag, error) {
	var out model.PromptTag
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.tags.Unassign(tx, promptID, tagID)
		return err
	})
	metrics.ObserveMutation("prompt_tag", "unassign", err)
	if err != nil {
		return model.PromptTag{}, err
	}
	s.log.Info().Str("prompt_id", string(promptID)).Str("tag_id", string(tagID)).Msg("tag unassigned")
	return out, nil
}

// ListForPrompt returns the tags assigned to a prompt.
func (s *TagService) ListForPrompt(ctx context.Context, promptID model.PromptID) ([]model.Tag, error) {
	var out []model.Tag
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.tags.TagsForPrompt(tx, promptID)
		return err
	})
	return out, err
}
