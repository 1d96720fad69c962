package event

import (
	"github.com/google/uuid"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// ActionCommitted is emitted after an action was accepted and merged.
type ActionCommitted struct {
	ActionID uuid.UUID
	Tags     []ecs.ActionTag
	Entities []ecs.EntityID
	Passes   int
}

// ActionDiscarded is emitted when rules still rejected an action after the
// last allowed rebuild pass.
type ActionDiscarded struct {
	ActionID uuid.UUID
	Tags     []ecs.ActionTag
	Reasons  []string
	Passes   int
}

// EffectExpired is emitted when the effect pipeline prunes an elapsed effect.
type EffectExpired struct {
	EntityID ecs.EntityID
	Effect   string
}
