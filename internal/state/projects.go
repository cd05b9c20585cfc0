package state

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/kv"
	"github.com/five82/deckhand/internal/logging"
)

// projectPageSize is how many projects a load requests; the store keeps a
// single unpaginated list.
const projectPageSize = 100

// ProjectsSnapshot is a copy of the project store's state.
type ProjectsSnapshot = ListSnapshot[api.Project]

// Projects mirrors the user's projects and the current project selection.
type Projects struct {
	api ProjectsAPI
	collection[api.Project]
}

// NewProjects builds a project store. store may be nil, in which case the
// selection is not persisted.
func NewProjects(client ProjectsAPI, store kv.Store, log *logrus.Entry) *Projects {
	if log == nil {
		log = logging.Discard()
	}
	return &Projects{
		api: client,
		collection: collection[api.Project]{
			key: func(p api.Project) string { return p.ID },
			sel: NewSelection(CurrentProjectKey, store, log),
			log: log,
		},
	}
}

// Snapshot returns a copy of the current state.
func (p *Projects) Snapshot() ProjectsSnapshot {
	return p.snapshot()
}

// Current returns the selected project when it is present in the list.
func (p *Projects) Current() (api.Project, bool) {
	return p.current()
}

// CurrentID returns the selected project id, which may not be loaded yet.
func (p *Projects) CurrentID() string {
	return p.sel.ID()
}

// InitFromStorage adopts the persisted project selection.
func (p *Projects) InitFromStorage() {
	p.sel.InitFromStorage()
}

// Select sets the current project; "" clears it.
func (p *Projects) Select(id string) {
	p.sel.Select(id)
}

// Load fetches the project list. Errors are recorded on the snapshot.
func (p *Projects) Load(ctx context.Context) {
	p.load(ctx, func(ctx context.Context) ([]api.Project, error) {
		list, err := p.api.ListProjects(ctx, 1, projectPageSize)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	}, "Failed to load projects")
}

// Create creates a project and reloads the list.
func (p *Projects) Create(ctx context.Context, in api.ProjectCreate) (api.Project, error) {
	var created api.Project
	live, err := p.mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.api.CreateProject(ctx, in)
		return err
	}, "Failed to create project")
	if err != nil {
		return api.Project{}, err
	}
	if live {
		p.Load(ctx)
	}
	return created, nil
}

// Update updates a project and reloads the list.
func (p *Projects) Update(ctx context.Context, id string, in api.ProjectUpdate) (api.Project, error) {
	var updated api.Project
	live, err := p.mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = p.api.UpdateProject(ctx, id, in)
		return err
	}, "Failed to update project")
	if err != nil {
		return api.Project{}, err
	}
	if live {
		p.Load(ctx)
	}
	return updated, nil
}

// Delete deletes a project, clears the selection if it pointed there, and
// reloads the list.
func (p *Projects) Delete(ctx context.Context, id string) error {
	live, err := p.mutate(ctx, func(ctx context.Context) error {
		return p.api.DeleteProject(ctx, id)
	}, "Failed to delete project")
	if err != nil || !live {
		return err
	}
	p.sel.clearIf(id)
	p.Load(ctx)
	return nil
}

// Clear empties the store and removes the persisted selection.
func (p *Projects) Clear() {
	p.clear()
}
