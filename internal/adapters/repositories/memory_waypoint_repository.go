package repositories

import (
	"context"
	"marker-route-service/internal/domain"
	"sync"
)

// In-memory implementation of the WaypointRepository port.
// Used by tests and by the server when no database is configured.
type MemoryWaypointRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.Waypoint
}

func NewMemoryWaypointRepository(seed ...domain.Waypoint) *MemoryWaypointRepository {
	r := &MemoryWaypointRepository{byID: make(map[string]domain.Waypoint)}
	for _, w := range seed {
		_ = r.SaveWaypoint(context.Background(), w)
	}
	return r
}

func (r *MemoryWaypointRepository) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Waypoint, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MemoryWaypointRepository) GetWaypoint(ctx context.Context, id string) (domain.Waypoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.Waypoint{}, domain.ErrWaypointNotFound
	}
	return w, nil
}

func (r *MemoryWaypointRepository) SaveWaypoint(ctx context.Context, w domain.Waypoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[w.ID]; !ok {
		r.order = append(r.order, w.ID)
	}
	r.byID[w.ID] = w
	return nil
}

func (r *MemoryWaypointRepository) SetStatus(ctx context.Context, id string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.ErrWaypointNotFound
	}
	w.Status = status
	r.byID[id] = w
	return nil
}

func (r *MemoryWaypointRepository) ToggleStatus(ctx context.Context, id string) (domain.Waypoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.Waypoint{}, domain.ErrWaypointNotFound
	}
	w.Status = w.Status.Toggle()
	r.byID[id] = w
	return w, nil
}

func (r *MemoryWaypointRepository) DeleteWaypoint(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrWaypointNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
