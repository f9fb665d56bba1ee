package reconcile

import "testing"

func TestWizardHappyPath(t *testing.T) {
	s := &WizardSession{ID: "w1", Step: StepItemSelection}

	s.BomItemIDs = []string{"bi-1", "bi-2"}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance to supplier assignment: %v", err)
	}
	if !s.At(StepSupplierAssignment) {
		t.Fatalf("step = %s", s.Step)
	}

	s.Assignments = []SupplierAssignment{
		{ID: "a1", BomItemID: "bi-1", SupplierID: "sup-1", Quantity: 10},
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance to submitted: %v", err)
	}
	if !s.At(StepSubmitted) {
		t.Fatalf("step = %s", s.Step)
	}
}

func TestWizardGuardsBlockEmptySteps(t *testing.T) {
	s := &WizardSession{ID: "w1", Step: StepItemSelection}
	if err := s.Advance(); err == nil {
		t.Fatal("advanced past item selection with no items")
	}
	if !s.At(StepItemSelection) {
		t.Fatalf("failed guard must not move the session, step = %s", s.Step)
	}

	s.BomItemIDs = []string{"bi-1"}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if err := s.Advance(); err == nil {
		t.Fatal("advanced past supplier assignment with no assignments")
	}
	s.Assignments = []SupplierAssignment{{ID: "a1", BomItemID: "bi-1", Quantity: 5}}
	if err := s.Advance(); err == nil {
		t.Fatal("advanced with an assignment missing its supplier")
	}
}

func TestWizardSubmittedIsTerminal(t *testing.T) {
	s := &WizardSession{ID: "w1", Step: StepSubmitted}
	if err := s.Advance(); err == nil {
		t.Fatal("advanced a submitted session")
	}
}
