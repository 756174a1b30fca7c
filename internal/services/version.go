package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/core/versioning"
	"github.com/promptlab/promptlab/internal/metrics"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/validate"
)

type VersionService struct {
	deps     Deps
	versions *versioning.Engine
	log      zerolog.Logger
}

func NewVersionService(d Deps) *VersionService {
	d = d.withDefaults()
	return &VersionService{
		deps:     d,
		versions: versioning.New(d.IDs),
		log:      d.Log.With().Str("component", "versions").Logger(),
	}
}

// VersionRecord is a recorded version together with the updated prompt.
type VersionRecord struct {
	Version model.PromptVersion `json:"version"`
	Prompt  model.Prompt        `json:"prompt"`
}

// Record sets the prompt's content to newContent, keeping the old content
// as the next version.
func (s *VersionService) Record(ctx context.Context, promptID model.PromptID, newContent, summary string) (VersionRecord, error) {
	if err := validate.Content(newContent); err != nil {
		return VersionRecord{}, err
	}
	summary = strings.TrimSpace(summary)
	if err := validate.Summary(summary); err != nil {
		return VersionRecord{}, err
	}
	var out VersionRecord
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		v, p, err := s.versions.Record(tx, promptID, newContent, summary, s.deps.Now())
		out = VersionRecord{Version: v, Prompt: p}
		return err
	})
	metrics.ObserveMutation("version", "record", err)
	if err != nil {
		s.log.Warn().Err(err).Str("prompt_id", string(promptID)).Msg("record version failed")
		return VersionRecord{}, err
	}
	metrics.VersionRecorded(metrics.ReasonRecord)
	s.log.Info().
		Str("prompt_id", string(promptID)).
		Int("version_number", out.Version.VersionNumber).
		Msg("version recorded")
	return out, nil
}

// List returns the prompt's versions, oldest first.
func (s *VersionService) List(ctx context.Context, promptID model.PromptID) ([]model.PromptVersion, error) {
	var out []model.PromptVersion
	err := s.deps.Store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.versions.List(tx, promptID)
		return err
	})
	return out, err
}

// Revert restores the content of versionID. Changed is false when the
// content was already equal and nothing was recorded.
func (s *VersionService) Revert(ctx context.Context, promptID model.PromptID, versionID model.VersionID) (versioning.RevertResult, error) {
	var out versioning.RevertResult
	err := s.deps.Store.Update(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.versions.Revert(tx, promptID, versionID, s.deps.Now())
		return err
	})
	metrics.ObserveMutation("version", "revert", err)
	if err != nil {
		s.log.Warn().Err(err).Str("prompt_id", string(promptID)).Str("version_id", string(versionID)).Msg("revert failed")
		return versioning.RevertResult{}, err
	}
	if out.Changed {
		metrics.VersionRecorded(metrics.ReasonRevert)
	}
	s.log.Info().
		Str("prompt_id", string(promptID)).
		Str("version_id", string(versionID)).
		Bool("changed", out.Changed).
		Msg("prompt reverted")
	return out, nil
}
