package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType enumerates supported custom field kinds.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeParagraph FieldType = "paragraph"
	FieldTypeDate      FieldType = "date"
	FieldTypeAmount    FieldType = "amount"
	FieldTypeDropdown  FieldType = "dropdown"
	FieldTypeFile      FieldType = "file"
)

// ValidFieldType reports whether t is a known field kind.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeParagraph, FieldTypeDate, FieldTypeAmount, FieldTypeDropdown, FieldTypeFile:
		return true
	}
	return false
}

// StepType enumerates workflow step kinds.
type StepType string

const (
	StepTypeApproval     StepType = "approval"
	StepTypeTask         StepType = "task"
	StepTypeNotification StepType = "notification"
)

// Quorum is the approval rule for a step.
type Quorum string

const (
	// QuorumAny transitions on the first approval.
	QuorumAny Quorum = "any"
	// QuorumAll transitions once every required role has approved.
	QuorumAll Quorum = "all"
)

// DurationUnit scales an SLA duration.
type DurationUnit string

const (
	UnitHours DurationUnit = "hours"
	UnitDays  DurationUnit = "days"
)

// FieldDef describes one custom field of a ticket type. Name is a stable
// identifier and immutable once tickets reference it; Deprecated hides the
// field from new tickets while retaining it for historical display.
type FieldDef struct {
	Name           string    `json:"name"`
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	Required       bool      `json:"required"`
	DropdownListID string    `json:"dropdown_list_id,omitempty"`
	Deprecated     bool      `json:"deprecated,omitempty"`
}

// ApproverRule names the roles allowed to act on a step and the quorum
// needed to advance past it.
type ApproverRule struct {
	Roles    []string `json:"roles"`
	Required Quorum   `json:"required"`
}

// SLA is the advisory duration budget for a step. The engine never
// enforces it; breach detection belongs to an external notifier.
type SLA struct {
	Duration        int          `json:"duration"`
	Unit            DurationUnit `json:"unit"`
	ExcludeWeekends bool         `json:"exclude_weekends"`
}

// Step is one stage of a workflow. Status is the string shown on a ticket
// while it sits at this step.
type Step struct {
	Name      string       `json:"name"`
	Status    string       `json:"status"`
	Type      StepType     `json:"step_type"`
	Approvers ApproverRule `json:"approvers"`
	SLA       SLA          `json:"sla"`
}

// Workflow is the ordered approval sequence of a ticket type. Step order
// defines traversal order.
type Workflow struct {
	Steps []Step `json:"steps"`
}

// HistoryAction enumerates recorded ticket actions.
type HistoryAction string

const (
	ActionCreated HistoryAction = "Created"
	ActionApprove HistoryAction = "Approve"
	ActionReturn  HistoryAction = "Return"
	ActionReject  HistoryAction = "Reject"
	ActionCancel  HistoryAction = "Cancel"
)

// TicketType defines the shape and approval workflow of a request category.
type TicketType struct {
	ID                        string
	Name                      string
	Code                      string
	Description               string
	IsActive                  bool
	RequireAttachmentOnCreate bool
	CommentRequirements       map[HistoryAction]bool
	Fields                    []FieldDef
	Workflow                  Workflow
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// CommentRequired reports whether the given action needs a justification
// comment on tickets of this type.
func (t *TicketType) CommentRequired(action HistoryAction) bool {
	return t.CommentRequirements[action]
}

// FieldByName returns the field definition with the given stable name.
func (t *TicketType) FieldByName(name string) (FieldDef, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// ValidateTypeCode checks the 1-5 uppercase character mnemonic used in
// ticket numbers.
func ValidateTypeCode(code string) bool {
	if len(code) < 1 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Validate checks construction-time invariants: code format, field type
// tags, dropdown list references, and workflow shape. Active types must
// carry a non-empty workflow and approval steps need at least one role.
func (t *TicketType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("ticket type name required")
	}
	if !ValidateTypeCode(t.Code) {
		return fmt.Errorf("ticket type code %q must be 1-5 uppercase characters", t.Code)
	}
	seen := make(map[string]bool, len(t.Fields))
	for i, f := range t.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field %d: name required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q defined twice", f.Name)
		}
		seen[f.Name] = true
		if !ValidFieldType(f.Type) {
			return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
		if f.Type == FieldTypeDropdown && f.DropdownListID == "" {
			return fmt.Errorf("field %q: dropdown fields need a dropdown_list_id", f.Name)
		}
	}
	if t.IsActive && len(t.Workflow.Steps) == 0 {
		return fmt.Errorf("active ticket type needs at least one workflow step")
	}
	for i, step := range t.Workflow.Steps {
		if strings.TrimSpace(step.Status) == "" {
			return fmt.Errorf("step %d: status required", i)
		}
		switch step.Type {
		case StepTypeApproval, StepTypeTask, StepTypeNotification:
		default:
			return fmt.Errorf("step %d: unknown step type %q", i, step.Type)
		}
		if step.Type == StepTypeApproval && len(step.Approvers.Roles) == 0 {
			return fmt.Errorf("step %d: approval steps need at least one approver role", i)
		}
		switch step.Approvers.Required {
		case QuorumAny, QuorumAll:
		default:
			return fmt.Errorf("step %d: quorum must be %q or %q", i, QuorumAny, QuorumAll)
		}
		if step.SLA.Duration < 0 {
			return fmt.Errorf("step %d: sla duration must be positive", i)
		}
		if step.SLA.Duration > 0 && step.SLA.Unit != UnitHours && step.SLA.Unit != UnitDays {
			return fmt.Errorf("step %d: sla unit must be %q or %q", i, UnitHours, UnitDays)
		}
	}
	return nil
}

// FieldViolation names one schema-vs-value mismatch.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// DropdownResolver looks up a dropdown list for value validation.
type DropdownResolver func(listID string) (*DropdownList, error)

// ValidateValues checks instance data against the field schema, collecting
// every violation rather than failing fast. Deprecated fields are skipped
// for new submissions.
func (t *TicketType) ValidateValues(values map[string]string, resolve DropdownResolver) ([]FieldViolation, error) {
	var violations []FieldViolation
	for _, f := range t.Fields {
		if f.Deprecated {
			continue
		}
		value, present := values[f.Name]
		if strings.TrimSpace(value) == "" {
			if f.Required {
				violations = append(violations, FieldViolation{Field: f.Name, Reason: "required"})
			}
			continue
		}
		if !present {
			continue
		}
		switch f.Type {
		case FieldTypeAmount:
			amount, err := strconv.ParseFloat(value, 64)
			if err != nil || amount < 0 {
				violations = append(violations, FieldViolation{Field: f.Name, Reason: "must be a non-negative amount"})
			}
		case FieldTypeDate:
			if !validDateValue(value) {
				violations = append(violations, FieldViolation{Field: f.Name, Reason: "must be a date"})
			}
		case FieldTypeDropdown:
			if resolve == nil {
				break
			}
			list, err := resolve(f.DropdownListID)
			if err != nil {
				return nil, err
			}
			if !list.HasValue(value, nil) {
				violations = append(violations, FieldViolation{Field: f.Name, Reason: "not a valid option"})
			}
		}
	}
	return violations, nil
}

func validDateValue(value string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
