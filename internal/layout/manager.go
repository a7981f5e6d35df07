// Package layout implements the save, apply, remove and list operations on
// top of xrandr and the profile store.
package layout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sigreer/autoxrandr/internal/db"
	"github.com/sigreer/autoxrandr/internal/profile"
	"github.com/sigreer/autoxrandr/internal/xrandr"
)

// History records finished operations. *db.DB implements it.
type History interface {
	RecordEvent(event *db.Event) error
}

// Manager runs layout operations. It is meant for one command per process;
// concurrent managers sharing a profile file are not safe.
type Manager struct {
	invoker xrandr.Invoker
	store   *profile.Store
	history History
	log     zerolog.Logger
}

// NewManager creates a manager. history may be nil.
func NewManager(invoker xrandr.Invoker, store *profile.Store, history History, log zerolog.Logger) *Manager {
	return &Manager{
		invoker: invoker,
		store:   store,
		history: history,
		log:     log,
	}
}

// Snapshot is the current state of the outputs as reported by xrandr
type Snapshot struct {
	Displays []xrandr.DisplayRecord `json:"displays"`
	Active   []string               `json:"active"`
}

// Current queries and parses both xrandr reports
func (m *Manager) Current(ctx context.Context) ([]xrandr.DisplayRecord, xrandr.ConnectorSet, error) {
	statusOut, err := m.invoker.QueryStatus(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := xrandr.ParseStatus(string(statusOut))
	if err != nil {
		return nil, nil, err
	}

	activeOut, err := m.invoker.QueryActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	active, err := xrandr.ParseActive(string(activeOut))
	if err != nil {
		return nil, nil, err
	}

	m.log.Debug().Int("connectors", len(records)).Strs("active", active.Sorted()).Msg("read current layout")
	return records, active, nil
}

// Snapshot returns the current state in a serialisable form
func (m *Manager) Snapshot(ctx context.Context) (*Snapshot, error) {
	records, active, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Displays: records, Active: active.Sorted()}, nil
}

// Save captures the current layout under name, replacing any profile with
// the same name.
func (m *Manager) Save(ctx context.Context, name string) (p *profile.Profile, err error) {
	defer func() { m.record(name, db.ActionSave, nil, err) }()

	records, active, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, err = profile.Build(records, active)
	if err != nil {
		return nil, err
	}

	set, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if _, exists := set[name]; exists {
		m.log.Info().Str("profile", name).Msg("overwriting existing profile")
	}
	set[name] = p
	if err := m.store.Save(set); err != nil {
		return nil, err
	}

	return p, nil
}

// Get returns a saved profile
func (m *Manager) Get(name string) (*profile.Profile, error) {
	set, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	return set.Get(name)
}

// Apply re-applies a saved profile and returns the arguments passed to
// xrandr. With dryRun the arguments are only computed.
func (m *Manager) Apply(ctx context.Context, name string, dryRun bool) (args []string, err error) {
	p, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	args = p.Arguments()
	if dryRun {
		return args, nil
	}

	defer func() { m.record(name, db.ActionApply, args, err) }()

	m.log.Debug().Str("profile", name).Strs("args", args).Msg("applying layout")
	if err := m.invoker.Apply(ctx, args); err != nil {
		return args, fmt.Errorf("failed to apply %s: %w", name, err)
	}
	return args, nil
}

// Remove deletes a saved profile
func (m *Manager) Remove(name string) (err error) {
	set, err := m.store.Load()
	if err != nil {
		return err
	}
	if err := set.Remove(name); err != nil {
		return err
	}
	defer func() { m.record(name, db.ActionRemove, nil, err) }()

	return m.store.Save(set)
}

// List returns all saved profiles
func (m *Manager) List() (profile.Set, error) {
	return m.store.Load()
}

// record stores the outcome of an operation. History is best effort and
// never fails the operation itself.
func (m *Manager) record(name, action string, args []string, opErr error) {
	if m.history == nil {
		return
	}

	event := &db.Event{
		Profile: name,
		Action:  action,
		Status:  db.StatusOK,
		Args:    args,
	}
	if opErr != nil {
		event.Status = db.StatusFailed
		event.Details = opErr.Error()
	}

	if err := m.history.RecordEvent(event); err != nil {
		m.log.Warn().Err(err).Str("profile", name).Str("action", action).Msg("failed to record history")
	}
}
