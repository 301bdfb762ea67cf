package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/approval-desk/internal/domain"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

func categoriesList() *domain.DropdownList {
	return &domain.DropdownList{
		ID:   "dl-cat",
		Name: "Request Categories",
		Options: []domain.DropdownOption{
			{Label: "Hardware", Value: "hardware"},
			{Label: "Software", Value: "software"},
			{Label: "Laptop", Value: "laptop", ParentValue: "hardware"},
			{Label: "Monitor", Value: "monitor", ParentValue: "hardware"},
			{Label: "CRM License", Value: "crm-license", ParentValue: "software"},
		},
	}
}

func TestCreateListRejectsDuplicateValues(t *testing.T) {
	svc := NewDropdownService(newFakeDropdownRepo(), nil, nil)

	list := &domain.DropdownList{
		Name: "Cost Centers",
		Options: []domain.DropdownOption{
			{Label: "Sales", Value: "cc-100"},
			{Label: "Sales EMEA", Value: "cc-100"},
		},
	}
	_, err := svc.CreateList(context.Background(), list)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicateValue, apperrors.CodeOf(err))
}

func TestOptionsForFiltersByParentValue(t *testing.T) {
	svc := NewDropdownService(newFakeDropdownRepo(categoriesList()), nil, nil)
	ctx := context.Background()

	hardware := "hardware"
	options, err := svc.OptionsFor(ctx, "dl-cat", &hardware)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "laptop", options[0].Value)
	assert.Equal(t, "monitor", options[1].Value)

	all, err := svc.OptionsFor(ctx, "dl-cat", nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestGetListMissingIsNotFound(t *testing.T) {
	svc := NewDropdownService(newFakeDropdownRepo(), nil, nil)

	_, err := svc.GetList(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
