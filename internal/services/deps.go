package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/store"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store store.Store
	IDs   ids.Generator
	Now   func() time.Time
	Log   zerolog.Logger
}

// withDefaults fills unset optional fields.
func (d Deps) withDefaults() Deps {
	if d.IDs == nil {
		d.IDs = ids.UUID{}
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}
