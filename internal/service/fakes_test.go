package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/repository"
)

// In-memory repository fakes. They mimic the store contract the pgx
// implementations provide: pgx.ErrNoRows for absent rows, timestamps
// stamped on insert and update.

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
	order   []string
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("ticket-%d", r.seq)
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.nextID()
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.CreatedAt = stored.CreatedAt
	ticket.UpdatedAt = time.Now().Add(time.Millisecond)
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if filter.MatchNone {
		return []domain.Ticket{}, nil
	}
	var result []domain.Ticket
	for _, id := range r.order {
		t, ok := r.tickets[id]
		if !ok {
			continue
		}
		if filter.CreatedBy != nil && !t.CreatedByUser(*filter.CreatedBy) {
			continue
		}
		if filter.AssignedToOrFree != nil && !t.Unassigned() && !t.AssignedToAgent(*filter.AssignedToOrFree) {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

type fakeCommentRepo struct {
	seq      int
	comments map[string]*domain.TicketComment
	order    []string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.TicketComment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	clone := *comment
	r.comments[comment.ID] = &clone
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *domain.TicketComment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.TicketComment, error) {
	stored, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	var result []domain.TicketComment
	for _, id := range r.order {
		c, ok := r.comments[id]
		if !ok {
			continue
		}
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	for id, c := range r.comments {
		if c.TicketID == ticketID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type fakeClassificationRepo struct {
	seq      int
	entities map[string]*domain.Classification
}

func newFakeClassificationRepo() *fakeClassificationRepo {
	return &fakeClassificationRepo{entities: map[string]*domain.Classification{}}
}

func (r *fakeClassificationRepo) seed(kind domain.ClassificationKind, name string, active bool) string {
	r.seq++
	id := fmt.Sprintf("%s-%d", kind, r.seq)
	r.entities[id] = &domain.Classification{ID: id, Kind: kind, Name: name, IsActive: active, SortOrder: r.seq}
	return id
}

func (r *fakeClassificationRepo) List(_ context.Context, kind domain.ClassificationKind) ([]domain.Classification, error) {
	var result []domain.Classification
	for _, e := range r.entities {
		if e.Kind == kind {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *fakeClassificationRepo) GetByID(_ context.Context, kind domain.ClassificationKind, id string) (*domain.Classification, error) {
	e, ok := r.entities[id]
	if !ok || e.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (r *fakeClassificationRepo) Create(_ context.Context, entity *domain.Classification) error {
	r.seq++
	entity.ID = fmt.Sprintf("%s-%d", entity.Kind, r.seq)
	clone := *entity
	r.entities[entity.ID] = &clone
	return nil
}

func (r *fakeClassificationRepo) Update(_ context.Context, entity *domain.Classification) error {
	stored, ok := r.entities[entity.ID]
	if !ok || stored.Kind != entity.Kind {
		return pgx.ErrNoRows
	}
	clone := *entity
	r.entities[entity.ID] = &clone
	return nil
}

func (r *fakeClassificationRepo) Delete(_ context.Context, kind domain.ClassificationKind, id string) error {
	stored, ok := r.entities[id]
	if !ok || stored.Kind != kind {
		return pgx.ErrNoRows
	}
	delete(r.entities, id)
	return nil
}

func (r *fakeClassificationRepo) ActiveExists(_ context.Context, kind domain.ClassificationKind, id string) (bool, error) {
	e, ok := r.entities[id]
	return ok && e.Kind == kind && e.IsActive, nil
}

type fakeDashboardRepo struct {
	overview repository.Overview
	counts   map[domain.ClassificationKind][]repository.LabelCount
	calls    int
}

func (r *fakeDashboardRepo) Overview(_ context.Context) (*repository.Overview, error) {
	r.calls++
	clone := r.overview
	return &clone, nil
}

func (r *fakeDashboardRepo) CountsByKind(_ context.Context, kind domain.ClassificationKind) ([]repository.LabelCount, error) {
	r.calls++
	return r.counts[kind], nil
}
