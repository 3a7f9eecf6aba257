package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgeryhub/dailydose-api/internal/api/shared"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/service"
	"github.com/surgeryhub/dailydose-api/internal/task"
)

type mockSubmitter struct {
	SubmitFn  func(ctx context.Context, t task.Task) error
	submitted []task.Task
}

func (m *mockSubmitter) Submit(ctx context.Context, t task.Task) error {
	if m.SubmitFn != nil {
		if err := m.SubmitFn(ctx, t); err != nil {
			return err
		}
	}
	m.submitted = append(m.submitted, t)
	return nil
}

type stubGenerator struct{}

func (stubGenerator) GenerateDose(
	ctx context.Context,
	promptText string,
	userID uuid.UUID,
) (*domain.GenerationOutput, error) {
	return nil, errors.New("not used in handler tests")
}

type stubDoseService struct {
	GetDoseFn   func(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error)
	ListDosesFn func(ctx context.Context, surgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error)
}

func (s *stubDoseService) CreateDraft(ctx context.Context, dose *domain.Dose) error {
	return nil
}

func (s *stubDoseService) GetDose(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
	return s.GetDoseFn(ctx, doseID, surgeryID)
}

func (s *stubDoseService) ListDoses(
	ctx context.Context,
	surgeryID uuid.UUID,
	status domain.DoseStatus,
	limit, offset int,
) ([]*domain.Dose, error) {
	return s.ListDosesFn(ctx, surgeryID, status, limit, offset)
}

type stubPublishService struct {
	PublishFn func(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error)
}

func (s *stubPublishService) Publish(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
	return s.PublishFn(ctx, doseID, surgeryID)
}

func newTestDoseHandler(submitter *mockSubmitter, doses *stubDoseService, publish *stubPublishService) *DoseHandler {
	if submitter == nil {
		submitter = &mockSubmitter{}
	}
	if doses == nil {
		doses = &stubDoseService{}
	}
	if publish == nil {
		publish = &stubPublishService{}
	}
	return NewDoseHandler(submitter, stubGenerator{}, doses, publish, nil)
}

func testDose(surgeryID uuid.UUID, status domain.DoseStatus) *domain.Dose {
	now := time.Now().UTC()
	return &domain.Dose{
		ID:            uuid.New(),
		SurgeryID:     surgeryID,
		CreatedBy:     uuid.New(),
		PromptText:    "sick note requests",
		Content:       json.RawMessage(`{}`),
		Status:        status,
		RiskLevel:     domain.RiskLevelLow,
		NeedsSourcing: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// parseFixture builds a complete generation output that passes validation,
// for driving the synchronous parse endpoint.
func parseFixture() *domain.GenerationOutput {
	url := "https://www.nhs.uk/nhs-services/prescriptions/"
	return &domain.GenerationOutput{
		Cards: []domain.LearningCard{
			{
				TargetRole:           domain.TargetRoleAdmin,
				Title:                "Handling repeat prescription queries",
				EstimatedTimeMinutes: 5,
				Tags:                 []string{"prescriptions"},
				RiskLevel:            domain.RiskLevelLow,
				NeedsSourcing:        false,
				ReviewByDate:         "2027-03-01",
				Sources: []domain.Source{
					{Title: "NHS repeat prescriptions", URL: &url},
				},
				ContentBlocks: []domain.ContentBlock{
					{Type: domain.ContentBlockText, Text: "Repeat prescriptions can be requested online or in writing."},
				},
				Interactions: []domain.Interaction{
					{
						Type:         domain.InteractionMCQ,
						Prompt:       "A patient asks for an early repeat. What do you do?",
						Options:      []string{"Issue it immediately", "Pass to the prescribing team"},
						CorrectIndex: 1,
						Explanation:  "Early requests go to the prescribing team.",
					},
				},
				SlotLanguage: domain.SlotLanguage{
					Relevant: true,
					Guidance: []domain.SlotGuidance{
						{Slot: domain.SlotGreen, Rule: "Routine prescription queries go into Green slots."},
					},
				},
				SafetyNetting: []string{"Running out of critical medication goes to the duty GP."},
			},
		},
		Quiz: domain.Quiz{
			Title: "Repeat prescriptions check",
			Questions: []domain.QuizQuestion{
				{
					Type:         domain.QuestionTrueFalse,
					Question:     "Reception can approve early repeat requests.",
					Options:      []string{"True", "False"},
					CorrectIndex: 1,
					Explanation:  "Only the prescribing team can approve early requests.",
				},
			},
		},
	}
}

func TestGenerateDose(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()

	t.Run("enqueues task and returns 202", func(t *testing.T) {
		submitter := &mockSubmitter{}
		handler := newTestDoseHandler(submitter, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/generate",
			jsonBody(`{"prompt_text":"How should reception handle sick note requests?"}`),
			userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		require.Len(t, submitter.submitted, 1)

		var resp GenerateDoseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, submitter.submitted[0].ID(), resp.TaskID)
		assert.Equal(t, string(task.TaskStatusPending), resp.Status)
	})

	t.Run("full queue returns 503", func(t *testing.T) {
		submitter := &mockSubmitter{
			SubmitFn: func(ctx context.Context, t task.Task) error {
				return errors.New("task queue is full")
			},
		}
		handler := newTestDoseHandler(submitter, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/generate",
			jsonBody(`{"prompt_text":"a valid prompt"}`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("prompt too short returns 400", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/generate",
			jsonBody(`{"prompt_text":"ab"}`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/generate",
			jsonBody(`{"prompt_text":`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/generate",
			jsonBody(`{"prompt_text":"a valid prompt"}`), uuid.Nil, uuid.Nil)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestParseDose(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()

	t.Run("valid payload parses", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		rawOutput, err := json.Marshal(parseFixture())
		require.NoError(t, err)

		body, err := json.Marshal(ParseDoseRequest{RawText: string(rawOutput)})
		require.NoError(t, err)

		req := authedRequest(t, http.MethodPost, "/api/doses/parse",
			jsonBody(string(body)), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Parse(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp ParseDoseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.False(t, resp.Repaired)
		assert.NotNil(t, resp.Data)
	})

	t.Run("unparseable text returns 422 with schema mismatch code", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/parse",
			jsonBody(`{"raw_text":"I cannot produce that content, sorry."}`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Parse(rr, req)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, shared.CodeSchemaMismatch, resp.Code)
		assert.NotEmpty(t, resp.Issues)
	})

	t.Run("empty raw text returns 400", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/parse",
			jsonBody(`{"raw_text":""}`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Parse(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPublishDose(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()
	doseID := uuid.New()

	publishRequest := func(t *testing.T, handler *DoseHandler) *httptest.ResponseRecorder {
		t.Helper()
		req := authedRequest(t, http.MethodPost,
			fmt.Sprintf("/api/doses/%s/publish", doseID), nil, userID, surgeryID)
		req = withRouteParam(req, "id", doseID.String())
		rr := httptest.NewRecorder()
		handler.Publish(rr, req)
		return rr
	}

	t.Run("success returns published dose", func(t *testing.T) {
		published := testDose(surgeryID, domain.DoseStatusPublished)
		handler := newTestDoseHandler(nil, nil, &stubPublishService{
			PublishFn: func(ctx context.Context, gotDoseID, gotSurgeryID uuid.UUID) (*domain.Dose, error) {
				assert.Equal(t, doseID, gotDoseID)
				assert.Equal(t, surgeryID, gotSurgeryID)
				return published, nil
			},
		})

		rr := publishRequest(t, handler)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DoseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, published.ID, resp.ID)
		assert.Equal(t, domain.DoseStatusPublished, resp.Status)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			serviceErr error
			wantStatus int
			wantCode   string
		}{
			{
				name:       "not found",
				serviceErr: service.ErrDoseNotFound,
				wantStatus: http.StatusNotFound,
			},
			{
				name:       "cross-surgery access",
				serviceErr: service.ErrNotOwned,
				wantStatus: http.StatusForbidden,
			},
			{
				name:       "wrong status",
				serviceErr: service.ErrDoseNotPublishable,
				wantStatus: http.StatusConflict,
			},
			{
				name:       "high risk without approval",
				serviceErr: service.ErrClinicianApprovalRequired,
				wantStatus: http.StatusConflict,
				wantCode:   shared.CodeClinicianApprovalRequired,
			},
			{
				name: "safety violations",
				serviceErr: &service.SafetyValidationError{
					Violations: []domain.SafetyViolation{
						{Code: domain.ViolationUnresolvedSourcing, Message: "dose has unresolved sourcing"},
					},
				},
				wantStatus: http.StatusUnprocessableEntity,
				wantCode:   shared.CodeSafetyValidationFailed,
			},
			{
				name:       "unexpected failure",
				serviceErr: errors.New("connection refused"),
				wantStatus: http.StatusInternalServerError,
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				handler := newTestDoseHandler(nil, nil, &stubPublishService{
					PublishFn: func(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
						return nil, tc.serviceErr
					},
				})

				rr := publishRequest(t, handler)

				require.Equal(t, tc.wantStatus, rr.Code)

				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tc.wantCode, resp.Code)

				if tc.wantCode == shared.CodeSafetyValidationFailed {
					assert.NotEmpty(t, resp.Violations)
				}
			})
		}
	})

	t.Run("invalid dose ID returns 400", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodPost, "/api/doses/not-a-uuid/publish", nil, userID, surgeryID)
		req = withRouteParam(req, "id", "not-a-uuid")
		rr := httptest.NewRecorder()

		handler.Publish(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetDose(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()

	t.Run("returns owned dose", func(t *testing.T) {
		dose := testDose(surgeryID, domain.DoseStatusDraft)
		handler := newTestDoseHandler(nil, &stubDoseService{
			GetDoseFn: func(ctx context.Context, doseID, gotSurgeryID uuid.UUID) (*domain.Dose, error) {
				assert.Equal(t, surgeryID, gotSurgeryID)
				return dose, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/doses/"+dose.ID.String(), nil, userID, surgeryID)
		req = withRouteParam(req, "id", dose.ID.String())
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DoseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, dose.ID, resp.ID)
		assert.Equal(t, domain.DoseStatusDraft, resp.Status)
	})

	t.Run("cross-surgery dose returns 403", func(t *testing.T) {
		handler := newTestDoseHandler(nil, &stubDoseService{
			GetDoseFn: func(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
				return nil, service.ErrNotOwned
			},
		}, nil)

		doseID := uuid.New()
		req := authedRequest(t, http.MethodGet, "/api/doses/"+doseID.String(), nil, userID, surgeryID)
		req = withRouteParam(req, "id", doseID.String())
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing dose returns 404", func(t *testing.T) {
		handler := newTestDoseHandler(nil, &stubDoseService{
			GetDoseFn: func(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
				return nil, service.ErrDoseNotFound
			},
		}, nil)

		doseID := uuid.New()
		req := authedRequest(t, http.MethodGet, "/api/doses/"+doseID.String(), nil, userID, surgeryID)
		req = withRouteParam(req, "id", doseID.String())
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListDoses(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()

	t.Run("returns surgery doses with defaults", func(t *testing.T) {
		doses := []*domain.Dose{
			testDose(surgeryID, domain.DoseStatusPublished),
			testDose(surgeryID, domain.DoseStatusDraft),
		}
		handler := newTestDoseHandler(nil, &stubDoseService{
			ListDosesFn: func(ctx context.Context, gotSurgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error) {
				assert.Equal(t, surgeryID, gotSurgeryID)
				assert.Equal(t, domain.DoseStatus(""), status)
				assert.Equal(t, defaultListLimit, limit)
				assert.Equal(t, 0, offset)
				return doses, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/doses", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DoseListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp.Doses, 2)
	})

	t.Run("status filter and pagination pass through", func(t *testing.T) {
		handler := newTestDoseHandler(nil, &stubDoseService{
			ListDosesFn: func(ctx context.Context, surgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error) {
				assert.Equal(t, domain.DoseStatusPublished, status)
				assert.Equal(t, 5, limit)
				assert.Equal(t, 10, offset)
				return nil, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/doses?status=published&limit=5&offset=10", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DoseListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Empty(t, resp.Doses)
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		handler := newTestDoseHandler(nil, nil, nil)

		req := authedRequest(t, http.MethodGet, "/api/doses?limit=zero", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
