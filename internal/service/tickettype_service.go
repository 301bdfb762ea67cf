package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// TicketTypeService manages ticket type definitions and guards schema
// mutations against data already referenced by tickets.
type TicketTypeService struct {
	types   repository.TicketTypeRepository
	tickets repository.TicketRepository
}

// NewTicketTypeService constructs the service.
func NewTicketTypeService(types repository.TicketTypeRepository, tickets repository.TicketRepository) *TicketTypeService {
	return &TicketTypeService{types: types, tickets: tickets}
}

// CreateType validates and stores a new ticket type.
func (s *TicketTypeService) CreateType(ctx context.Context, typ *domain.TicketType) (*domain.TicketType, error) {
	typ.Code = domain.NormalizeCode(typ.Code)
	if err := typ.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if existing, err := s.types.GetByCode(ctx, typ.Code); err == nil && existing != nil {
		return nil, apperrors.NewConflict("ticket type code already in use", map[string]any{"code": typ.Code})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.NewRemoteError(err)
	}
	if err := s.types.Create(ctx, typ); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return typ, nil
}

// UpdateType validates and stores changes to a ticket type. Fields that
// existing tickets reference may not be removed; they must be deprecated
// through DeprecateField.
func (s *TicketTypeService) UpdateType(ctx context.Context, typ *domain.TicketType) (*domain.TicketType, error) {
	typ.Code = domain.NormalizeCode(typ.Code)
	if err := typ.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	current, err := s.types.GetByID(ctx, typ.ID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	if existing, err := s.types.GetByCode(ctx, typ.Code); err == nil && existing.ID != typ.ID {
		return nil, apperrors.NewConflict("ticket type code already in use", map[string]any{"code": typ.Code})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.NewRemoteError(err)
	}

	for _, old := range current.Fields {
		if _, kept := typ.FieldByName(old.Name); kept {
			continue
		}
		count, err := s.tickets.CountByFieldUsage(ctx, typ.ID, old.Name)
		if err != nil {
			return nil, apperrors.NewRemoteError(err)
		}
		if count > 0 {
			return nil, apperrors.NewFieldInUse(old.Name)
		}
	}

	if err := s.types.Update(ctx, typ); err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	return typ, nil
}

// DeleteField removes an unused field or fails with FieldInUseError when
// any persisted ticket references it.
func (s *TicketTypeService) DeleteField(ctx context.Context, typeID, fieldName string) (*domain.TicketType, error) {
	typ, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	if _, ok := typ.FieldByName(fieldName); !ok {
		return nil, apperrors.NewNotFound("field", map[string]any{"field": fieldName})
	}

	count, err := s.tickets.CountByFieldUsage(ctx, typeID, fieldName)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	if count > 0 {
		return nil, apperrors.NewFieldInUse(fieldName)
	}

	kept := make([]domain.FieldDef, 0, len(typ.Fields)-1)
	for _, f := range typ.Fields {
		if f.Name != fieldName {
			kept = append(kept, f)
		}
	}
	typ.Fields = kept
	if err := s.types.Update(ctx, typ); err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	return typ, nil
}

// DeprecateField hides a field from new tickets while retaining it for
// historical display.
func (s *TicketTypeService) DeprecateField(ctx context.Context, typeID, fieldName string) (*domain.TicketType, error) {
	typ, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	found := false
	for i := range typ.Fields {
		if typ.Fields[i].Name == fieldName {
			typ.Fields[i].Deprecated = true
			found = true
		}
	}
	if !found {
		return nil, apperrors.NewNotFound("field", map[string]any{"field": fieldName})
	}
	if err := s.types.Update(ctx, typ); err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	return typ, nil
}

// DeleteType removes a ticket type that has no tickets.
func (s *TicketTypeService) DeleteType(ctx context.Context, typeID string) error {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{TicketTypeID: &typeID, Limit: 1})
	if err != nil {
		return apperrors.NewRemoteError(err)
	}
	if len(tickets) > 0 {
		return apperrors.NewConflict("ticket type has existing tickets", map[string]any{"ticket_type_id": typeID})
	}
	if err := s.types.Delete(ctx, typeID); err != nil {
		return mapRepoErr(err, "ticket type")
	}
	return nil
}

// GetType fetches a ticket type by id.
func (s *TicketTypeService) GetType(ctx context.Context, typeID string) (*domain.TicketType, error) {
	typ, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	return typ, nil
}

// ListTypes returns ticket types; non-admin callers see active ones only.
func (s *TicketTypeService) ListTypes(ctx context.Context, actor *domain.UserProfile) ([]domain.TicketType, error) {
	types, err := s.types.List(ctx, !actor.IsAdmin())
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return types, nil
}
