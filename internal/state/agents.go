package state

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/kv"
	"github.com/five82/deckhand/internal/logging"
)

// AgentsSnapshot is a copy of the agent store's state.
type AgentsSnapshot = ListSnapshot[api.Agent]

// Agents mirrors the available agents and the selected agent slug.
type Agents struct {
	api AgentsAPI
	collection[api.Agent]
}

// NewAgents builds an agent store. store may be nil, in which case the
// selection is not persisted.
func NewAgents(client AgentsAPI, store kv.Store, log *logrus.Entry) *Agents {
	if log == nil {
		log = logging.Discard()
	}
	return &Agents{
		api: client,
		collection: collection[api.Agent]{
			key: func(a api.Agent) string { return a.Slug },
			sel: NewSelection(SelectedAgentKey, store, log),
			log: log,
		},
	}
}

// Snapshot returns a copy of the current state.
func (a *Agents) Snapshot() AgentsSnapshot {
	return a.snapshot()
}

// Selected returns the selected agent when it is present in the list.
func (a *Agents) Selected() (api.Agent, bool) {
	return a.current()
}

// SelectedSlug returns the selected slug, which may not be loaded yet.
func (a *Agents) SelectedSlug() string {
	return a.sel.ID()
}

// InitFromStorage adopts the persisted agent selection.
func (a *Agents) InitFromStorage() {
	a.sel.InitFromStorage()
}

// Select sets the selected agent by slug; "" clears it.
func (a *Agents) Select(slug string) {
	a.sel.Select(slug)
}

// Fetch loads the agent list. Errors are recorded on the snapshot.
func (a *Agents) Fetch(ctx context.Context) {
	a.load(ctx, func(ctx context.Context) ([]api.Agent, error) {
		list, err := a.api.ListAgents(ctx)
		if err != nil {
			return nil, err
		}
		return list.Agents, nil
	}, "Failed to fetch agents")
}

// Create creates a user agent and reloads the list.
func (a *Agents) Create(ctx context.Context, in api.AgentCreate) (api.Agent, error) {
	var created api.Agent
	live, err := a.mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = a.api.CreateAgent(ctx, in)
		return err
	}, "Failed to create agent")
	if err != nil {
		return api.Agent{}, err
	}
	if live {
		a.Fetch(ctx)
	}
	return created, nil
}

// Update updates a user agent by id and reloads the list.
func (a *Agents) Update(ctx context.Context, id string, in api.AgentUpdate) (api.Agent, error) {
	var updated api.Agent
	live, err := a.mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.api.UpdateAgent(ctx, id, in)
		return err
	}, "Failed to update agent")
	if err != nil {
		return api.Agent{}, err
	}
	if live {
		a.Fetch(ctx)
	}
	return updated, nil
}

// Delete deletes a user agent by id. When the deleted agent was selected the
// selection is cleared before the list reloads.
func (a *Agents) Delete(ctx context.Context, id string) error {
	var slug string
	a.mu.RLock()
	for _, agent := range a.items {
		if agent.ID == id {
			slug = agent.Slug
			break
		}
	}
	a.mu.RUnlock()

	live, err := a.mutate(ctx, func(ctx context.Context) error {
		return a.api.DeleteAgent(ctx, id)
	}, "Failed to delete agent")
	if err != nil || !live {
		return err
	}
	a.sel.clearIf(slug)
	a.Fetch(ctx)
	return nil
}

// Tools lists the tools an agent can call.
func (a *Agents) Tools(ctx context.Context, slug string) ([]api.ToolInfo, error) {
	return a.api.AgentTools(ctx, slug)
}

// Clear empties the store and removes the persisted selection.
func (a *Agents) Clear() {
	a.clear()
}
