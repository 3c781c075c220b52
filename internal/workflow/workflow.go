// Package workflow drives the three-step submission flow: collect product
// data, answer the merged follow-up questions, submit answers to produce a
// report. It owns the step transitions, the loading flag that gates
// duplicate submissions, and the product identifier captured between steps.
package workflow

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/events"
	"github.com/altibbe/transparency/internal/models"
	"github.com/altibbe/transparency/internal/questions"
)

// State is the current workflow step.
type State int

const (
	StateCollectingProduct State = iota
	StateAnsweringQuestions
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateCollectingProduct:
		return "collecting_product"
	case StateAnsweringQuestions:
		return "answering_questions"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a submission while a network call is in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrInvalidState rejects a transition issued from the wrong step.
	ErrInvalidState = errors.New("operation not valid in current step")
	// ErrValidation signals field-level validation failure; no network call
	// was issued and the per-field messages carry the detail.
	ErrValidation = errors.New("product data failed validation")
	// ErrMissingProductID refuses answer submission when product creation
	// never yielded an identifier.
	ErrMissingProductID = errors.New("missing created product ID, cannot generate report")
	// ErrReportIDMissing marks a report creation that returned no
	// identifier; the attempt happened but there is nothing to navigate to.
	ErrReportIDMissing = errors.New("report created but no ID returned")
)

// FieldErrors maps draft field names to validation messages.
type FieldErrors map[string]string

// Validate checks the locally required fields. It never touches the network.
func Validate(d *models.ProductDraft) FieldErrors {
	errs := FieldErrors{}
	if d.Name == "" {
		errs["name"] = "Product name is required"
	}
	if d.Category == "" {
		errs["category"] = "Category is required"
	}
	if d.Brand == "" {
		errs["brand"] = "Brand is required"
	}
	if len(d.NormalizedIngredients()) == 0 {
		errs["ingredients"] = "Ingredients are required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// API is the slice of the HTTP client the workflow depends on.
type API interface {
	CreateProduct(ctx context.Context, draft *models.ProductDraft) (string, error)
	GenerateQuestions(ctx context.Context, draft *models.ProductDraft) ([]questions.RawQuestion, error)
	CreateReport(ctx context.Context, productID string, answers models.AnswerSet) (*models.Report, error)
}

// Notifier surfaces transient user-facing notices (the toast layer).
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// Workflow is one submission session. Each session owns its own draft,
// question set and answers; nothing is shared across sessions.
type Workflow struct {
	api    API
	engine *questions.Engine
	bus    *events.Bus
	notify Notifier
	log    *zap.Logger

	mu        sync.Mutex
	state     State
	loading   bool
	productID string
	questions []models.Question
}

func New(api API, bus *events.Bus, notify Notifier, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{
		api:    api,
		engine: questions.NewEngine(),
		bus:    bus,
		notify: notify,
		log:    log,
		state:  StateCollectingProduct,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// ProductID returns the identifier captured when the product was created,
// or "" on the degraded path.
func (w *Workflow) ProductID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.productID
}

// Questions returns the merged question sequence for the answering step.
func (w *Workflow) Questions() []models.Question {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.questions
}

// beginCall flips the loading flag, refusing when a call is in flight or the
// workflow is not in the expected step.
func (w *Workflow) beginCall(expected State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loading {
		return ErrBusy
	}
	if w.state != expected {
		return ErrInvalidState
	}
	w.loading = true
	return nil
}

func (w *Workflow) endCall() {
	w.mu.Lock()
	w.loading = false
	w.mu.Unlock()
}

// SubmitProduct validates the draft, creates the product, fetches and merges
// the follow-up questions, then advances to the answering step. Validation
// failure returns the per-field messages before any network call. A product
// created without an identifier is tolerated with a warning and the step
// still advances.
func (w *Workflow) SubmitProduct(ctx context.Context, draft *models.ProductDraft) (FieldErrors, error) {
	if errs := Validate(draft); errs != nil {
		return errs, ErrValidation
	}
	if err := w.beginCall(StateCollectingProduct); err != nil {
		return nil, err
	}
	defer w.endCall()

	payload := *draft
	payload.Ingredients = draft.NormalizedIngredients()
	payload.IngredientsText = ""

	productID, err := w.api.CreateProduct(ctx, &payload)
	if err != nil {
		w.notify.Error("Failed to save product data. Please try again.")
		w.log.Debug("create product failed", zap.Error(err))
		return nil, err
	}
	if productID == "" {
		w.notify.Warn("Product created but no ID returned from server")
	}

	server, err := w.api.GenerateQuestions(ctx, &payload)
	if err != nil {
		// The step aborts but the captured product id survives for a retry.
		w.mu.Lock()
		w.productID = productID
		w.mu.Unlock()
		w.notify.Error("Failed to save product data. Please try again.")
		w.log.Debug("generate questions failed", zap.Error(err))
		return nil, err
	}
	if len(server) == 0 {
		w.notify.Warn("AI did not return explicit questions; using a local fallback so you can continue.")
	}

	local := questions.DeriveLocalQuestions(&payload)
	merged := w.engine.Merge(local, server)

	w.mu.Lock()
	w.productID = productID
	w.questions = merged
	w.state = StateAnsweringQuestions
	w.mu.Unlock()

	w.notify.Success("Product data saved! Now answer the follow-up questions.")
	return nil, nil
}

// Back returns unconditionally to the product step. Previously entered draft
// values are not restored; the caller re-collects them.
func (w *Workflow) Back() {
	w.mu.Lock()
	if w.state == StateAnsweringQuestions {
		w.state = StateCollectingProduct
	}
	w.mu.Unlock()
}

// SubmitAnswers creates the report from the captured product identifier and
// the collected answers. Without a product identifier the transition is
// refused before any network call. A response without a report identifier
// counts as attempted but does not complete the workflow.
func (w *Workflow) SubmitAnswers(ctx context.Context, answers models.AnswerSet) (*models.Report, error) {
	w.mu.Lock()
	if w.state != StateAnsweringQuestions {
		w.mu.Unlock()
		return nil, ErrInvalidState
	}
	if w.productID == "" {
		w.mu.Unlock()
		w.notify.Error("Missing created product ID — cannot generate report")
		return nil, ErrMissingProductID
	}
	productID := w.productID
	w.mu.Unlock()

	if err := w.beginCall(StateAnsweringQuestions); err != nil {
		return nil, err
	}
	defer w.endCall()

	report, err := w.api.CreateReport(ctx, productID, answers)
	if err != nil {
		w.notify.Error("Failed to generate report. Please try again.")
		w.log.Debug("create report failed", zap.Error(err))
		return nil, err
	}
	if report == nil || report.ID == "" {
		w.notify.Error("Report created but no ID returned")
		return report, ErrReportIDMissing
	}

	w.mu.Lock()
	w.state = StateSubmitted
	w.mu.Unlock()

	if w.bus != nil {
		w.bus.Publish(events.ReportCreated{Report: report})
	}
	w.notify.Success("Report generated successfully!")
	return report, nil
}
