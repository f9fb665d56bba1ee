package reconcile

import (
	"fmt"
	"time"
)

// Wizard steps for the BOM-to-PO flow. The session walks strictly
// forward through ItemSelection → SupplierAssignment → Review → Submitted;
// each edge has a guard so a client cannot skip a step by replaying
// requests out of order.
type WizardStep string

const (
	StepItemSelection      WizardStep = "item_selection"
	StepSupplierAssignment WizardStep = "supplier_assignment"
	StepReview             WizardStep = "review"
	StepSubmitted          WizardStep = "submitted"
)

// WizardSession in-flight BOM→PO wizard state. Held in redis by the
// service layer with a TTL; it becomes purchase orders only on submit and
// is otherwise discarded.
type WizardSession struct {
	ID          string               `json:"id"`
	Step        WizardStep           `json:"step"`
	BomItemIDs  []string             `json:"bom_item_ids"`
	Assignments []SupplierAssignment `json:"assignments"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// guards for each forward edge, keyed by the current step
var wizardGuards = map[WizardStep]func(*WizardSession) error{
	StepItemSelection: func(s *WizardSession) error {
		if len(s.BomItemIDs) == 0 {
			return fmt.Errorf("select at least one pending item before assigning suppliers")
		}
		return nil
	},
	StepSupplierAssignment: func(s *WizardSession) error {
		if len(s.Assignments) == 0 {
			return fmt.Errorf("assign at least one supplier before review")
		}
		for _, a := range s.Assignments {
			if a.SupplierID == "" {
				return fmt.Errorf("every assignment needs a supplier before review")
			}
		}
		return nil
	},
	StepReview: func(s *WizardSession) error {
		return nil // full draft validation happens at submit
	},
}

var wizardNext = map[WizardStep]WizardStep{
	StepItemSelection:      StepSupplierAssignment,
	StepSupplierAssignment: StepReview,
	StepReview:             StepSubmitted,
}

// Advance moves the session to the next step if the current step's guard
// passes. Advancing a submitted session is an error.
func (s *WizardSession) Advance() error {
	next, ok := wizardNext[s.Step]
	if !ok {
		return fmt.Errorf("wizard already %s", s.Step)
	}
	if guard := wizardGuards[s.Step]; guard != nil {
		if err := guard(s); err != nil {
			return err
		}
	}
	s.Step = next
	s.UpdatedAt = time.Now()
	return nil
}

// At reports whether the session is at the given step, for handlers that
// must reject out-of-order wizard calls.
func (s *WizardSession) At(step WizardStep) bool {
	return s.Step == step
}
