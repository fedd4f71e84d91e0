package patients

import (
	"context"
	"fmt"
	"sort"
)

// Repository gives read access to patient records.
type Repository interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (Patient, error)
	All(ctx context.Context) ([]Patient, error)
}

// MemoryRepository serves patients from a fixed in-memory list. It is safe for
// concurrent reads.
type MemoryRepository struct {
	order []string
	byID  map[string]Patient
}

// NewMemoryRepository indexes patients by ID. When an ID repeats, the last
// record wins.
func NewMemoryRepository(patients []Patient) *MemoryRepository {
	repo := &MemoryRepository{byID: make(map[string]Patient, len(patients))}
	for _, p := range patients {
		if _, ok := repo.byID[p.ID]; !ok {
			repo.order = append(repo.order, p.ID)
		}
		repo.byID[p.ID] = p
	}
	return repo
}

// List returns patient summaries ordered by ID.
func (r *MemoryRepository) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		summaries = append(summaries, r.byID[id].Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// Get returns the patient with the given ID or ErrPatientNotFound.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Patient, error) {
	if err := ctx.Err(); err != nil {
		return Patient{}, err
	}
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return p, nil
}

// All returns every patient in insertion order.
func (r *MemoryRepository) All(ctx context.Context) ([]Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := make([]Patient, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	return all, nil
}
