package migration

import "context"

type resolverKey struct {
	kind     EntityKind
	tenantId string
	name     string
}

// FindFunc looks up an entity by its natural key in the store.
// It returns 0 (not an error) when no row matches.
type FindFunc func(ctx context.Context) (int, error)

// CreateFunc persists a new entity and returns its id.
type CreateFunc func(ctx context.Context) (int, error)

// Resolver maps (entityKind, tenant, name) to a persisted id for the duration
// of one import/restore run. It is the single find-or-create primitive shared
// by all import phases and both restore formats: a hit in the run's map costs
// nothing, a hit in the store counts as skipped, a miss creates the row and
// counts it as created.
//
// The map is scoped to one invocation and discarded afterward. No locking:
// rows are processed sequentially by a single caller.
type Resolver struct {
	ids    map[resolverKey]int
	report *Report
}

func NewResolver(report *Report) *Resolver {
	return &Resolver{
		ids:    make(map[resolverKey]int),
		report: report,
	}
}

func (r *Resolver) ResolveOrCreate(ctx context.Context, kind EntityKind, tenantId string, name string, find FindFunc, create CreateFunc) (int, error) {
	key := resolverKey{kind: kind, tenantId: tenantId, name: name}
	if id, ok := r.ids[key]; ok {
		return id, nil
	}

	id, err := find(ctx)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		r.ids[key] = id
		r.report.counter(kind).Skipped++
		return id, nil
	}

	id, err = create(ctx)
	if err != nil {
		return 0, err
	}
	r.ids[key] = id
	r.report.counter(kind).Created++
	return id, nil
}

// Lookup returns an id already resolved in this run, without touching storage.
func (r *Resolver) Lookup(kind EntityKind, tenantId string, name string) (int, bool) {
	id, ok := r.ids[resolverKey{kind: kind, tenantId: tenantId, name: name}]
	return id, ok
}
