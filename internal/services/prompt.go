package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/core/integrity"
	"github.com/promptlab/promptlab/internal/core/versioning"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/metrics"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/template"
	"github.com/promptlab/promptlab/internal/validate"
)

type PromptService struct {
	deps     Deps
	versions *versioning.Engine
	log      zerolog.Logger
}

func NewPromptService(d Deps) *PromptService {
	d = d.withDefaults()
	return &PromptService{
		deps:     d,
		versions: versioning.New(d.IDs),
		log:      d.Log.With().Str("component", "prompts").Logger(),
	}
}

// PromptFilter narrows List. Empty fields do not filter.
type PromptFilter struct {
	CollectionID *model.CollectionID
	Search       string
}

func (f PromptFilter) match(p model.Prompt) bool {
	if f.CollectionID != nil && !p.InCollection(*f.CollectionID) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)
}

func (s *PromptService) Create(ctx context.Context, in model.PromptInput) (model.Prompt, error) {
	if err := validate.PromptInput(in); err != nil {
		return model.Prompt{}, err
	}
	var out model.Prompt
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		if err := integrity.CheckCollectionRef(tx, in.CollectionID); err != nil {
			return err
		}
		prompts := tx.Prompts()
		id, err := ids.Allocate(s.deps.IDs, func(id model.PromptID) bool {
			_, taken := prompts.Get(id)
			return taken
		})
		if err != nil {
			return err
		}
		now := s.deps.Now()
		out = prompts.Put(model.ApplyInput(model.Prompt{ID: id, CreatedAt: now, UpdatedAt: now}, in, now))
		return nil
	})
	metrics.ObserveMutation("prompt", "create", err)
	if err != nil {
		s.log.Warn().Err(err).Msg("create prompt failed")
		return model.Prompt{}, err
	}
	s.log.Info().Str("prompt_id", string(out.ID)).Msg("prompt created")
	return out, nil
}

func (s *PromptService) Get(ctx context.Context, id model.PromptID) (model.Prompt, error) {
	var out model.Prompt
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		p, ok := tx.Prompts().Get(id)
		if !ok {
			return core.NewNotFoundError(core.KindPrompt, id)
		}
		out = p
		return nil
	})
	return out, err
}

// List returns the matching prompts, newest first. Prompts created at the
// same instant are ordered most recently inserted first.
func (s *PromptService) List(ctx context.Context, f PromptFilter) ([]model.Prompt, error) {
	out := []model.Prompt{}
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		all := tx.Prompts().List()
		for i := len(all) - 1; i >= 0; i-- {
			if f.match(all[i]) {
				out = append(out, all[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Replace overwrites every caller-owned field. If the content changes
// (ignoring surrounding whitespace) the previous content is kept as a version.
func (s *PromptService) Replace(ctx context.Context, id model.PromptID, in model.PromptInput) (model.Prompt, error) {
	if err := validate.PromptInput(in); err != nil {
		return model.Prompt{}, err
	}
	out, versioned, err := s.rewrite(ctx, id, in.CollectionID, func(existing model.Prompt) model.Prompt {
		return model.ApplyInput(existing, in, s.deps.Now())
	})
	metrics.ObserveMutation("prompt", "replace", err)
	if err != nil {
		s.log.Warn().Err(err).Str("prompt_id", string(id)).Msg("replace prompt failed")
		return model.Prompt{}, err
	}
	s.log.Info().Str("prompt_id", string(id)).Bool("versioned", versioned).Msg("prompt replaced")
	return out, nil
}

// Patch applies only the fields present in p.
func (s *PromptService) Patch(ctx context.Context, id model.PromptID, p model.PromptPatch) (model.Prompt, error) {
	if err := validate.PromptPatch(p); err != nil {
		return model.Prompt{}, err
	}
	var ref *model.CollectionID
	if p.CollectionID.Set {
		ref = p.CollectionID.Pointer()
	}
	out, versioned, err := s.rewrite(ctx, id, ref, func(existing model.Prompt) model.Prompt {
		return model.ApplyPatch(existing, p, s.deps.Now())
	})
	metrics.ObserveMutation("prompt", "patch", err)
	if err != nil {
		s.log.Warn().Err(err).Str("prompt_id", string(id)).Msg("patch prompt failed")
		return model.Prompt{}, err
	}
	s.log.Info().Str("prompt_id", string(id)).Bool("versioned", versioned).Msg("prompt patched")
	return out, nil
}

// rewrite loads the prompt, checks ref, applies change and snapshots the old
// content when it differs from the new one.
func (s *PromptService) rewrite(ctx context.Context, id model.PromptID, ref *model.CollectionID, change func(model.Prompt) model.Prompt) (out model.Prompt, versioned bool, err error) {
	err = s.deps.Store.Update(ctx, func(tx store.Tx) error {
		existing, ok := tx.Prompts().Get(id)
		if !ok {
			return core.NewNotFoundError(core.KindPrompt, id)
		}
		if err := integrity.CheckCollectionRef(tx, ref); err != nil {
			return err
		}
		next := change(existing)
		if versioning.ContentChanged(existing.Content, next.Content) {
			if _, err := s.versions.Snapshot(tx, existing, versioning.SummaryContentUpdated, next.UpdatedAt); err != nil {
				return err
			}
			versioned = true
		}
		out = tx.Prompts().Put(next)
		return nil
	})
	if err == nil && versioned {
		metrics.VersionRecorded(metrics.ReasonUpdate)
	}
	return out, versioned, err
}

// Delete removes the prompt with its versions and tag assignments and
// reports whether it existed.
func (s *PromptService) Delete(ctx context.Context, id model.PromptID) (bool, error) {
	var res integrity.PromptDeletion
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		res = integrity.DeletePrompt(tx, id)
		return nil
	})
	metrics.ObserveMutation("prompt", "delete", err)
	if err != nil {
		return false, err
	}
	if res.Existed {
		s.log.Info().
			Str("prompt_id", string(id)).
			Int("versions_removed", res.RemovedVersions).
			Int("tags_removed", res.RemovedTags).
			Msg("prompt deleted")
	}
	return res.Existed, nil
}

// RenderResult is the outcome of Render.
type RenderResult struct {
	PromptID  model.PromptID `json:"prompt_id"`
	Content   string         `json:"content"`
	Variables []string       `json:"variables"`
}

// Render fills the prompt's placeholders from vars. Missing variables are
// reported as a validation error on "variables".
func (s *PromptService) Render(ctx context.Context, id model.PromptID, vars map[string]string) (RenderResult, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return RenderResult{}, err
	}
	out, err := template.Render(p.Content, vars)
	if err != nil {
		return RenderResult{}, core.NewValidationError("variables", err.Error())
	}
	return RenderResult{PromptID: id, Content: out, Variables: template.ExtractVariables(p.Content)}, nil
}
