package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reelintake/internal/draft"
	"reelintake/internal/form"
	"reelintake/internal/logging"
	"reelintake/internal/submission"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while an earlier
	// submission is still outstanding. Concurrent submits are rejected hard
	// rather than relying on the caller's disable flag alone.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrNotOnFinalStep is returned when Submit is called before the user
	// reaches the review step.
	ErrNotOnFinalStep = errors.New("submission is only available on the final step")

	// ErrBusy is returned for snapshot mutations attempted mid-submission.
	ErrBusy = errors.New("the form cannot be edited while submitting")
)

// ValidationError carries the user-facing message for a failed final check.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Events receives user-facing signals from the machine. Implementations
// translate them into whatever the hosting surface shows the user.
type Events interface {
	ValidationFailed(message string)
	ScrollToTop()
	SubmissionSucceeded(submissionID string, warning *submission.ResponseError)
	SubmissionFailed(failure *submission.ResponseError)
}

// NopEvents discards all signals.
type NopEvents struct{}

func (NopEvents) ValidationFailed(string)                             {}
func (NopEvents) ScrollToTop()                                        {}
func (NopEvents) SubmissionSucceeded(string, *submission.ResponseError) {}
func (NopEvents) SubmissionFailed(*submission.ResponseError)          {}

// Machine owns the canonical form snapshot and step cursor for one intake
// session. All collaborators are injected at construction; the machine holds
// no ambient state. Methods are safe for the single logical caller the
// design assumes, and Submit additionally guards against re-entrant calls.
type Machine struct {
	mu         sync.Mutex
	key        string
	snapshot   form.FormSnapshot
	submitting bool

	drafts    *draft.Store
	submitter *submission.Submitter
	events    Events
	logger    *slog.Logger
	timeout   time.Duration
	validator form.Validator
}

// Option customizes machine construction.
type Option func(*Machine)

// WithSubmitTimeout bounds the submission write sequence. Zero disables the
// bound.
func WithSubmitTimeout(timeout time.Duration) Option {
	return func(m *Machine) { m.timeout = timeout }
}

// WithEvents registers the signal sink.
func WithEvents(events Events) Option {
	return func(m *Machine) { m.events = events }
}

// WithMaxReelExamples overrides the reel example limit enforced on the proof
// step. Non-positive values keep the default.
func WithMaxReelExamples(limit int) Option {
	return func(m *Machine) { m.validator.MaxReelExamples = limit }
}

// NewMachine builds a machine for the draft key. The draft store is the
// persistence observer: every mutation that leaves the snapshot non-blank
// saves through it.
func NewMachine(key string, drafts *draft.Store, submitter *submission.Submitter, logger *slog.Logger, opts ...Option) *Machine {
	m := &Machine{
		key:       key,
		snapshot:  form.NewSnapshot(),
		drafts:    drafts,
		submitter: submitter,
		events:    NopEvents{},
		logger:    logging.NewComponentLogger(logger, "intake"),
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current form state.
func (m *Machine) Snapshot() form.FormSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Clone()
}

// Step returns the current step cursor.
func (m *Machine) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Step
}

// IsSubmitting reports whether a submission is outstanding.
func (m *Machine) IsSubmitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// Apply merges a field mutation into the snapshot and persists the result
// when it diverges from the blank initial state. The step cursor stays
// machine-owned: mutations cannot move it.
func (m *Machine) Apply(mutate func(*form.FormSnapshot)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return ErrBusy
	}

	step := m.snapshot.Step
	mutate(&m.snapshot)
	m.snapshot.Step = step

	m.persistLocked()
	return nil
}

// NextStep validates the current step. On failure the machine stays in place
// and the validation message is emitted; on success the cursor advances
// (clamped to the last step) and a scroll-to-top signal fires.
func (m *Machine) NextStep() form.StepResult {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return form.StepResult{IsValid: false, ErrorMessage: ErrBusy.Error()}
	}

	result := m.validator.ValidateStep(m.snapshot.Step, m.snapshot)
	if !result.IsValid {
		step := m.snapshot.Step
		m.mu.Unlock()
		m.logger.Debug("step validation failed",
			logging.Int(logging.FieldStep, step),
			logging.String("message", result.ErrorMessage))
		m.events.ValidationFailed(result.ErrorMessage)
		return result
	}

	if m.snapshot.Step < form.StepCount {
		m.snapshot.Step++
	}
	m.persistLocked()
	m.mu.Unlock()

	m.events.ScrollToTop()
	return result
}

// PrevStep moves the cursor back one step (clamped to the first) without
// validation.
func (m *Machine) PrevStep() {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return
	}
	if m.snapshot.Step > 1 {
		m.snapshot.Step--
	}
	m.persistLocked()
	m.mu.Unlock()

	m.events.ScrollToTop()
}

// LoadDraft returns the stored draft for this machine's key, if any, so the
// caller can offer a restore-or-clear choice.
func (m *Machine) LoadDraft() (*draft.StoredFormData, error) {
	return m.drafts.Load(m.key)
}

// RestoreDraft replaces the live snapshot with the stored draft. It reports
// whether a draft existed.
func (m *Machine) RestoreDraft() (bool, error) {
	stored, err := m.drafts.Load(m.key)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return false, ErrBusy
	}
	m.snapshot = stored.Data.Clone()
	if m.snapshot.Step < 1 {
		m.snapshot.Step = 1
	}
	if m.snapshot.Step > form.StepCount {
		m.snapshot.Step = form.StepCount
	}
	return true, nil
}

// DiscardDraft clears the stored draft and resets the snapshot.
func (m *Machine) DiscardDraft() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return ErrBusy
	}
	m.snapshot = form.NewSnapshot()
	return m.drafts.Clear(m.key)
}

// Submit runs the final-step check and delegates to the submission
// orchestrator under a bounded timeout. On full or partial success the draft
// is cleared and the snapshot resets; on hard failure the draft is retained
// with status "failed" so the user can retry.
func (m *Machine) Submit(ctx context.Context) (*submission.SubmissionResponse, error) {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if m.snapshot.Step != form.StepCount {
		m.mu.Unlock()
		return nil, ErrNotOnFinalStep
	}
	if result := form.ValidateFinal(m.snapshot); !result.IsValid {
		m.mu.Unlock()
		m.events.ValidationFailed(result.ErrorMessage)
		return nil, &ValidationError{Message: result.ErrorMessage}
	}

	m.submitting = true
	snapshot := m.snapshot.Clone()
	m.mu.Unlock()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	response := m.submitter.Submit(ctx, snapshot)

	m.mu.Lock()
	m.submitting = false
	switch {
	case response.Success:
		if err := m.drafts.Clear(m.key); err != nil {
			m.logger.Warn("failed to clear draft after submission",
				logging.String(logging.FieldDraftKey, m.key),
				logging.Error(err))
		}
		m.snapshot = form.NewSnapshot()
		m.mu.Unlock()
		m.events.SubmissionSucceeded(response.SubmissionID, response.Error)
	default:
		if err := m.drafts.MarkFailed(m.key, snapshot); err != nil {
			m.logger.Warn("failed to mark draft as failed",
				logging.String(logging.FieldDraftKey, m.key),
				logging.Error(err))
		}
		m.mu.Unlock()
		m.events.SubmissionFailed(response.Error)
	}

	return &response, nil
}

func (m *Machine) persistLocked() {
	if m.snapshot.IsBlank() {
		return
	}
	if err := m.drafts.Save(m.key, m.snapshot); err != nil {
		m.logger.Warn(fmt.Sprintf("draft save failed: %v", err),
			logging.String(logging.FieldDraftKey, m.key))
	}
}
