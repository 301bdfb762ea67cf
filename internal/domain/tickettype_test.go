package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validType() *TicketType {
	return &TicketType{
		Name:     "IT Support",
		Code:     "IT",
		IsActive: true,
		Fields: []FieldDef{
			{Name: "category", Label: "Category", Type: FieldTypeDropdown, Required: true, DropdownListID: "dl-cat"},
			{Name: "details", Label: "Details", Type: FieldTypeParagraph},
		},
		Workflow: Workflow{Steps: []Step{
			{
				Name:      "Helpdesk Triage",
				Status:    "Pending Triage",
				Type:      StepTypeApproval,
				Approvers: ApproverRule{Roles: []string{"helpdesk"}, Required: QuorumAny},
				SLA:       SLA{Duration: 4, Unit: UnitHours},
			},
		}},
	}
}

func TestValidateTypeCode(t *testing.T) {
	assert.True(t, ValidateTypeCode("PR"))
	assert.True(t, ValidateTypeCode("IT2"))
	assert.False(t, ValidateTypeCode(""))
	assert.False(t, ValidateTypeCode("TOOLONG"))
	assert.False(t, ValidateTypeCode("pr"))
}

func TestValidateCompanyCode(t *testing.T) {
	assert.True(t, ValidateCompanyCode("MYCO"))
	assert.False(t, ValidateCompanyCode("MY"))
	assert.False(t, ValidateCompanyCode("MYCOMP"))
	assert.False(t, ValidateCompanyCode("myco"))
}

func TestTicketTypeValidate(t *testing.T) {
	assert.NoError(t, validType().Validate())

	missingWorkflow := validType()
	missingWorkflow.Workflow.Steps = nil
	assert.Error(t, missingWorkflow.Validate(), "active type needs a workflow")

	noRoles := validType()
	noRoles.Workflow.Steps[0].Approvers.Roles = nil
	assert.Error(t, noRoles.Validate(), "approval step needs approver roles")

	badField := validType()
	badField.Fields[0].Type = FieldType("checkbox")
	assert.Error(t, badField.Validate())

	dupField := validType()
	dupField.Fields = append(dupField.Fields, FieldDef{Name: "category", Label: "Again", Type: FieldTypeText})
	assert.Error(t, dupField.Validate())

	orphanDropdown := validType()
	orphanDropdown.Fields[0].DropdownListID = ""
	assert.Error(t, orphanDropdown.Validate())
}

func TestValidateValuesCollectsAllViolations(t *testing.T) {
	typ := &TicketType{
		Fields: []FieldDef{
			{Name: "item", Type: FieldTypeText, Required: true},
			{Name: "value", Type: FieldTypeAmount, Required: true},
			{Name: "needed_by", Type: FieldTypeDate},
		},
	}

	violations, err := typ.ValidateValues(map[string]string{
		"value":     "not-a-number",
		"needed_by": "tomorrow",
	}, nil)
	require.NoError(t, err)
	require.Len(t, violations, 3)

	fields := []string{violations[0].Field, violations[1].Field, violations[2].Field}
	assert.ElementsMatch(t, []string{"item", "value", "needed_by"}, fields)
}

func TestValidateValuesAmountAndDate(t *testing.T) {
	typ := &TicketType{
		Fields: []FieldDef{
			{Name: "value", Type: FieldTypeAmount},
			{Name: "needed_by", Type: FieldTypeDate},
		},
	}

	violations, err := typ.ValidateValues(map[string]string{
		"value":     "2499.00",
		"needed_by": "2025-08-01",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = typ.ValidateValues(map[string]string{"value": "-5"}, nil)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "value", violations[0].Field)
}

func TestValidateValuesDropdownMembership(t *testing.T) {
	list := &DropdownList{
		ID: "dl-cat",
		Options: []DropdownOption{
			{Label: "Hardware", Value: "hardware"},
			{Label: "Software", Value: "software"},
		},
	}
	resolve := func(id string) (*DropdownList, error) { return list, nil }

	typ := &TicketType{Fields: []FieldDef{
		{Name: "category", Type: FieldTypeDropdown, DropdownListID: "dl-cat"},
	}}

	violations, err := typ.ValidateValues(map[string]string{"category": "hardware"}, resolve)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = typ.ValidateValues(map[string]string{"category": "furniture"}, resolve)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "not a valid option", violations[0].Reason)
}

func TestDeprecatedFieldsSkippedOnSubmit(t *testing.T) {
	typ := &TicketType{Fields: []FieldDef{
		{Name: "legacy", Type: FieldTypeText, Required: true, Deprecated: true},
	}}
	violations, err := typ.ValidateValues(map[string]string{}, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
