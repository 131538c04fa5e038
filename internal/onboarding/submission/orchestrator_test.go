package submission_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/onboardingtest"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/submission/mocks"
	"onboarding/internal/onboarding/templates"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/audit"
)

type OrchestratorSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	renderer *mocks.MockRenderer
	auditor  *mocks.MockAuditPublisher
	orch     *submission.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}

func (s *OrchestratorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.renderer = mocks.NewMockRenderer(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)

	schemas, err := templates.Schemas()
	s.Require().NoError(err)
	mapper := mapping.New(schemas, mapping.WithClock(onboardingtest.Clock))

	s.orch = submission.NewOrchestrator(mapper, s.renderer,
		submission.WithAuditor(s.auditor),
		submission.WithClock(onboardingtest.Clock),
	)
}

func (s *OrchestratorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorSuite) expectAudit() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)
}

func rendered(id templates.ID) submission.Response {
	return submission.Response{
		PDFPath:             "/generated/" + string(id) + ".pdf",
		SubmissionTimestamp: "2025-03-10T09:30:01Z",
	}
}

// templateIs matches a render request for one template.
func templateIs(id templates.ID) gomock.Matcher {
	return gomock.Cond(func(req submission.Request) bool {
		return req.Payload.Template == id
	})
}

var scenarioA = []templates.ID{templates.Identification, templates.CustomerProfile, templates.FormA}

// =============================================================================
// Outcomes
// =============================================================================

func (s *OrchestratorSuite) TestAllTemplatesSucceed() {
	s.expectAudit()
	gomock.InOrder(
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.Identification)).Return(rendered(templates.Identification), nil),
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.CustomerProfile)).Return(rendered(templates.CustomerProfile), nil),
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.FormA)).Return(rendered(templates.FormA), nil),
	)

	result, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), scenarioA)
	s.Require().NoError(err)

	s.Equal(submission.StatusSuccess, result.Status)
	s.True(result.Success())
	s.Empty(result.Errors())
	s.Equal(submission.Summary{Total: 3, Successful: 3}, result.Summary())
	s.Equal("/generated/902.1e.pdf", result.Documents[0].PDFPath)
	s.Equal("2025-03-10T09:30:01Z", result.Documents[0].SubmissionTimestamp)
	s.Equal(onboardingtest.Now, result.StartedAt)

	status, last := s.orch.Status("sess-1")
	s.Equal(submission.StatusSuccess, status)
	s.Same(result, last)
}

func (s *OrchestratorSuite) TestOneFailureDoesNotAbortTheRest() {
	s.expectAudit()
	gomock.InOrder(
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.Identification)).Return(rendered(templates.Identification), nil),
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.CustomerProfile)).Return(submission.Response{}, errors.New("HTTP 500: Internal Server Error")),
		s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.FormA)).Return(rendered(templates.FormA), nil),
	)

	result, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), scenarioA)
	s.Require().NoError(err)

	s.Equal(submission.StatusPartialFailure, result.Status)
	s.False(result.Success())
	s.Equal([]string{"902.5e: HTTP 500: Internal Server Error"}, result.Errors())
	s.Equal(submission.Summary{Total: 3, Successful: 2, Failed: 1}, result.Summary())
	s.True(result.Documents[2].Success, "later templates still run")
}

func (s *OrchestratorSuite) TestEveryTemplateFails() {
	s.expectAudit()
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(submission.Response{}, errors.New("connection refused")).Times(3)

	result, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), scenarioA)
	s.Require().NoError(err)

	s.Equal(submission.StatusFailure, result.Status)
	s.Len(result.Errors(), 3)
	s.Equal("902.1e: connection refused", result.Errors()[0])
}

func (s *OrchestratorSuite) TestMappingErrorIsRecordedPerTemplate() {
	form := onboardingtest.SwissLLC()
	form.EstablishingPersons = nil

	s.expectAudit()
	s.renderer.EXPECT().Render(gomock.Any(), templateIs(templates.CustomerProfile)).Return(rendered(templates.CustomerProfile), nil)

	result, err := s.orch.Submit(context.Background(), "sess-1", form,
		[]templates.ID{templates.Identification, templates.CustomerProfile})
	s.Require().NoError(err)

	s.Equal(submission.StatusPartialFailure, result.Status)
	s.Equal("unexpected data error", result.Documents[0].Error)
	s.Equal([]string{"902.1e: unexpected data error"}, result.Errors())
}

func (s *OrchestratorSuite) TestAttachmentsOnlyForIdentification() {
	form := onboardingtest.SwissLLC()
	form.AdditionalInfo.BusinessPlan = onboardingtest.File("plan.pdf")
	form.AdditionalInfo.FinancialStatements = onboardingtest.File("fs.pdf")

	s.expectAudit()
	var requests []submission.Request
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req submission.Request) (submission.Response, error) {
			requests = append(requests, req)
			return rendered(req.Payload.Template), nil
		}).Times(2)

	_, err := s.orch.Submit(context.Background(), "sess-1", form,
		[]templates.ID{templates.Identification, templates.CustomerProfile})
	s.Require().NoError(err)

	s.Require().Len(requests, 2)
	s.Require().Len(requests[0].Attachments, 2)
	s.Equal("financialStatements", requests[0].Attachments[0].Field)
	s.Equal("businessPlan", requests[0].Attachments[1].Field)
	s.Empty(requests[1].Attachments)
}

// =============================================================================
// Guards
// =============================================================================

func (s *OrchestratorSuite) TestNoResubmissionAfterSuccess() {
	s.expectAudit()
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(rendered(templates.Identification), nil)

	ids := []templates.ID{templates.Identification}
	_, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	s.Require().NoError(err)

	_, err = s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	s.ErrorIs(err, submission.ErrAlreadySubmitted)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *OrchestratorSuite) TestRetryAllowedAfterFailure() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(4)
	gomock.InOrder(
		s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(submission.Response{}, errors.New("timeout")),
		s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(rendered(templates.Identification), nil),
	)

	ids := []templates.ID{templates.Identification}
	first, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	s.Require().NoError(err)
	s.Equal(submission.StatusFailure, first.Status)

	second, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	s.Require().NoError(err)
	s.Equal(submission.StatusSuccess, second.Status)
}

func (s *OrchestratorSuite) TestConcurrentSubmissionIsRejected() {
	release := make(chan struct{})
	entered := make(chan struct{})

	s.expectAudit()
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, submission.Request) (submission.Response, error) {
			close(entered)
			<-release
			return rendered(templates.Identification), nil
		})

	ids := []templates.ID{templates.Identification}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	}()

	<-entered
	status, _ := s.orch.Status("sess-1")
	s.Equal(submission.StatusSubmitting, status)

	_, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), ids)
	s.ErrorIs(err, submission.ErrInFlight)

	close(release)
	wg.Wait()
}

func (s *OrchestratorSuite) TestCancelledContextDoesNotStopTheRun() {
	s.expectAudit()
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req submission.Request) (submission.Response, error) {
			if ctx.Err() != nil {
				return submission.Response{}, ctx.Err()
			}
			return rendered(req.Payload.Template), nil
		}).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.orch.Submit(ctx, "sess-1", onboardingtest.SwissLLC(), scenarioA)
	s.Require().NoError(err)
	s.Equal(submission.StatusSuccess, result.Status)
}

func (s *OrchestratorSuite) TestNothingSelected() {
	_, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), nil)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	status, _ := s.orch.Status("sess-1")
	s.Equal(submission.StatusIdle, status)
}

// =============================================================================
// Audit
// =============================================================================

func (s *OrchestratorSuite) TestAuditEvents() {
	var events []audit.ComplianceEvent
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev audit.ComplianceEvent) error {
			events = append(events, ev)
			return nil
		}).Times(2)
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(submission.Response{}, errors.New("boom"))

	_, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), []templates.ID{templates.Identification})
	s.Require().NoError(err)

	s.Require().Len(events, 2)
	s.Equal(string(audit.EventSubmissionStarted), events[0].Action)
	s.Equal("sess-1", events[0].SessionID)
	s.Equal("902.1e", events[0].Reason)
	s.Equal(string(audit.EventSubmissionCompleted), events[1].Action)
	s.Equal("failure", events[1].Decision)
	s.Equal("902.1e: boom", events[1].Reason)
}

func (s *OrchestratorSuite) TestAuditFailureBlocksTheRun() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

	_, err := s.orch.Submit(context.Background(), "sess-1", onboardingtest.SwissLLC(), scenarioA)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	status, _ := s.orch.Status("sess-1")
	s.Equal(submission.StatusIdle, status, "an unaudited run never started")
}

// =============================================================================
// Tracker
// =============================================================================

func TestTrackerRetention(t *testing.T) {
	tracker := submission.NewTracker(time.Nanosecond)
	assert.NoError(t, tracker.Begin("a"))
	tracker.Finish("a", &submission.Result{Status: submission.StatusSuccess})
	time.Sleep(time.Millisecond)

	assert.NoError(t, tracker.Begin("b"), "pruning happens on Begin")
	status, _ := tracker.Status("a")
	assert.Equal(t, submission.StatusIdle, status)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, submission.StatusIdle.Terminal())
	assert.False(t, submission.StatusSubmitting.Terminal())
	assert.True(t, submission.StatusPartialFailure.Terminal())
}
