package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// In-memory repository fakes. They mirror the persistence collaborator
// contract closely enough for service tests: pgx.ErrNoRows for misses,
// version bumping on ticket updates.

type fakeCompanyRepo struct {
	companies map[string]*domain.Company
}

func newFakeCompanyRepo(companies ...*domain.Company) *fakeCompanyRepo {
	repo := &fakeCompanyRepo{companies: map[string]*domain.Company{}}
	for _, c := range companies {
		repo.companies[c.ID] = c
	}
	return repo
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	company.ID = fmt.Sprintf("comp-%d", len(r.companies)+1)
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *domain.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.companies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.companies, id)
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	if company, ok := r.companies[id]; ok {
		return company, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCompanyRepo) GetByCode(_ context.Context, code string) (*domain.Company, error) {
	for _, company := range r.companies {
		if company.Code == code {
			return company, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCompanyRepo) List(_ context.Context) ([]domain.Company, error) {
	var result []domain.Company
	for _, company := range r.companies {
		result = append(result, *company)
	}
	return result, nil
}

type fakeTicketTypeRepo struct {
	types map[string]*domain.TicketType
}

func newFakeTicketTypeRepo(types ...*domain.TicketType) *fakeTicketTypeRepo {
	repo := &fakeTicketTypeRepo{types: map[string]*domain.TicketType{}}
	for _, t := range types {
		repo.types[t.ID] = t
	}
	return repo
}

func (r *fakeTicketTypeRepo) Create(_ context.Context, typ *domain.TicketType) error {
	typ.ID = fmt.Sprintf("tt-%d", len(r.types)+1)
	r.types[typ.ID] = typ
	return nil
}

func (r *fakeTicketTypeRepo) Update(_ context.Context, typ *domain.TicketType) error {
	if _, ok := r.types[typ.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.types[typ.ID] = typ
	return nil
}

func (r *fakeTicketTypeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.types[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.types, id)
	return nil
}

func (r *fakeTicketTypeRepo) GetByID(_ context.Context, id string) (*domain.TicketType, error) {
	if typ, ok := r.types[id]; ok {
		copied := *typ
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketTypeRepo) GetByCode(_ context.Context, code string) (*domain.TicketType, error) {
	for _, typ := range r.types {
		if typ.Code == code {
			copied := *typ
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketTypeRepo) List(_ context.Context, onlyActive bool) ([]domain.TicketType, error) {
	var result []domain.TicketType
	for _, typ := range r.types {
		if onlyActive && !typ.IsActive {
			continue
		}
		result = append(result, *typ)
	}
	return result, nil
}

type fakeTicketRepo struct {
	tickets    map[string]*domain.Ticket
	fieldUsage map[string]int64
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, fieldUsage: map[string]int64{}}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func usageKey(typeID, field string) string { return typeID + "/" + field }

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = fmt.Sprintf("t-%d", len(r.tickets)+1)
	ticket.Version = 1
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return apperrors.NewConflict("ticket was modified concurrently", nil)
	}
	ticket.Version++
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := r.tickets[id]; ok {
		copied := *ticket
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.CompanyID != nil && ticket.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.TicketTypeID != nil && ticket.TicketTypeID != *filter.TicketTypeID {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListOpen(_ context.Context) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !domain.TerminalStatus(ticket.Status) && ticket.Status != domain.StatusDraft {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) CountByFieldUsage(_ context.Context, ticketTypeID, fieldName string) (int64, error) {
	return r.fieldUsage[usageKey(ticketTypeID, fieldName)], nil
}

type fakeDropdownRepo struct {
	lists map[string]*domain.DropdownList
}

func newFakeDropdownRepo(lists ...*domain.DropdownList) *fakeDropdownRepo {
	repo := &fakeDropdownRepo{lists: map[string]*domain.DropdownList{}}
	for _, l := range lists {
		repo.lists[l.ID] = l
	}
	return repo
}

func (r *fakeDropdownRepo) Create(_ context.Context, list *domain.DropdownList) error {
	list.ID = fmt.Sprintf("dl-%d", len(r.lists)+1)
	r.lists[list.ID] = list
	return nil
}

func (r *fakeDropdownRepo) Update(_ context.Context, list *domain.DropdownList) error {
	if _, ok := r.lists[list.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.lists[list.ID] = list
	return nil
}

func (r *fakeDropdownRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.lists[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.lists, id)
	return nil
}

func (r *fakeDropdownRepo) GetByID(_ context.Context, id string) (*domain.DropdownList, error) {
	if list, ok := r.lists[id]; ok {
		return list, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDropdownRepo) List(_ context.Context) ([]domain.DropdownList, error) {
	var result []domain.DropdownList
	for _, list := range r.lists {
		result = append(result, *list)
	}
	return result, nil
}

type fakeHistoryRepo struct {
	entries map[string][]domain.HistoryEntry
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: map[string][]domain.HistoryEntry{}}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.HistoryEntry) error {
	entry.ID = fmt.Sprintf("h-%d", len(r.entries[entry.TicketID])+1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries[entry.TicketID] = append(r.entries[entry.TicketID], *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	return r.entries[ticketID], nil
}

type fakeAttachmentRepo struct {
	attachments map[string][]domain.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: map[string][]domain.Attachment{}}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	attachment.ID = fmt.Sprintf("a-%d", len(r.attachments[attachment.TicketID])+1)
	if attachment.UploadedAt.IsZero() {
		attachment.UploadedAt = time.Now()
	}
	r.attachments[attachment.TicketID] = append(r.attachments[attachment.TicketID], *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	return r.attachments[ticketID], nil
}

type fakeSequenceRepo struct {
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: map[string]int64{}}
}

func (r *fakeSequenceRepo) Next(_ context.Context, companyCode, typeCode string, year int) (int64, error) {
	key := fmt.Sprintf("%s/%s/%d", companyCode, typeCode, year)
	r.counters[key]++
	return r.counters[key], nil
}
