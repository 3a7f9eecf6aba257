package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDose(t *testing.T) {
	surgeryID := uuid.New()
	createdBy := uuid.New()
	content := json.RawMessage(`{"cards":[],"quiz":{}}`)

	dose, err := NewDose(surgeryID, createdBy, "sick note requests", content, RiskLevelLow, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if dose.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if dose.Status != DoseStatusDraft {
		t.Errorf("Expected new dose to be a draft, got %s", dose.Status)
	}

	if dose.Approved() {
		t.Error("Expected new dose to carry no approval")
	}

	// Missing identifiers
	if _, err := NewDose(uuid.Nil, createdBy, "p", content, RiskLevelLow, false); err != ErrEmptyDoseSurgeryID {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseSurgeryID, err)
	}
	if _, err := NewDose(surgeryID, uuid.Nil, "p", content, RiskLevelLow, false); err != ErrEmptyDoseCreator {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseCreator, err)
	}

	// Content rules
	if _, err := NewDose(surgeryID, createdBy, "p", nil, RiskLevelLow, false); err != ErrEmptyDoseContent {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseContent, err)
	}
	if _, err := NewDose(surgeryID, createdBy, "p", json.RawMessage(`{not json`), RiskLevelLow, false); err != ErrInvalidDoseContent {
		t.Errorf("Expected error %v, got %v", ErrInvalidDoseContent, err)
	}

	// Risk level
	if _, err := NewDose(surgeryID, createdBy, "p", content, RiskLevel("severe"), false); err != ErrInvalidRiskLevel {
		t.Errorf("Expected error %v, got %v", ErrInvalidRiskLevel, err)
	}
}

func TestDoseApprove(t *testing.T) {
	dose, err := NewDose(uuid.New(), uuid.New(), "chest pain triage", json.RawMessage(`{}`), RiskLevelHigh, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	clinicianID := uuid.New()
	approvedAt := time.Now().UTC()

	dose.Approve(clinicianID, approvedAt)

	if !dose.Approved() {
		t.Error("Expected dose to be approved after sign-off")
	}
	if dose.ApprovedBy == nil || *dose.ApprovedBy != clinicianID {
		t.Errorf("Expected approver %s, got %v", clinicianID, dose.ApprovedBy)
	}
	if dose.ApprovedAt == nil || !dose.ApprovedAt.Equal(approvedAt) {
		t.Errorf("Expected approval time %s, got %v", approvedAt, dose.ApprovedAt)
	}
}

func TestDoseUpdateStatus(t *testing.T) {
	dose, err := NewDose(uuid.New(), uuid.New(), "p", json.RawMessage(`{}`), RiskLevelMed, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	transitions := []DoseStatus{
		DoseStatusPendingReview,
		DoseStatusPublished,
		DoseStatusArchived,
	}
	for _, status := range transitions {
		if err := dose.UpdateStatus(status); err != nil {
			t.Errorf("Expected no error for status %s, got %v", status, err)
		}
		if dose.Status != status {
			t.Errorf("Expected status %s, got %s", status, dose.Status)
		}
	}

	if err := dose.UpdateStatus(DoseStatus("retracted")); err != ErrInvalidDoseStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidDoseStatus, err)
	}
	if dose.Status != DoseStatusArchived {
		t.Errorf("Expected status to stay %s after rejected update, got %s", DoseStatusArchived, dose.Status)
	}
}
