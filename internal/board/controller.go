// Package board renders the activity board into an HTML document and runs
// the load, signup and unregister flows against the activities API.
package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

const (
	loadingText          = "Loading activities..."
	loadFailedText       = "Failed to load activities. Please try again later."
	anomalyText          = "Activities were loaded but the board did not update."
	busyLabel            = "Signing up..."
	signupFailedText     = "Failed to sign up. Please try again."
	unregisterFailedText = "Failed to unregister. Please try again."
	origTextAttr         = "data-orig-text"
)

// Flow names and outcomes reported to the Recorder.
const (
	FlowLoad       = "load"
	FlowSignup     = "signup"
	FlowUnregister = "unregister"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeFailure = "failure"
	OutcomeAnomaly = "anomaly"
	OutcomeBusy    = "busy"
)

// API is the part of the activities client the board needs.
type API interface {
	ListActivities(ctx context.Context) (model.Catalog, error)
	Signup(ctx context.Context, activity, email string) (*client.Response, error)
	Unregister(ctx context.Context, activity, email string) (*client.Response, error)
}

// Recorder counts finished flows.
type Recorder interface {
	FlowCompleted(flow, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) FlowCompleted(string, string) {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRecorder sets where flow outcomes are counted.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithMessageTimeout sets how long a status message stays visible. Zero
// keeps messages up until the next one.
func WithMessageTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.messageTimeout = d
	}
}

// WithTitle sets the school name shown in the page header.
func WithTitle(title string) Option {
	return func(c *Controller) {
		c.title = title
	}
}

// Controller owns one board document. Document mutations happen under mu;
// API calls are made without it, so flows interleave at the same points a
// browser's awaits would.
type Controller struct {
	api            API
	logger         *slog.Logger
	recorder       Recorder
	title          string
	messageTimeout time.Duration
	render         func(*Document, model.Catalog) int

	mu     sync.Mutex
	doc    *Document
	banner *Banner
}

// NewController builds a board with an empty document. Call Load to fetch
// the catalog.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:            api,
		logger:         slog.Default(),
		recorder:       nopRecorder{},
		title:          "Mergington High School",
		messageTimeout: 5 * time.Second,
		render:         RenderCatalog,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.doc = NewDocument(c.title)
	c.banner = newBanner(&c.mu, c.doc.Message, c.messageTimeout)
	return c
}

// Load fetches the catalog and rebuilds the list and the select. A failed
// fetch replaces the list with a failure notice. The returned error is for
// diagnostics only; the board stays usable.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	setParagraph(c.doc.List, loadingText)
	c.mu.Unlock()

	catalog, err := c.api.ListActivities(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		setParagraph(c.doc.List, loadFailedText)
		c.logger.Error("failed to fetch activities", "error", err)
		c.recorder.FlowCompleted(FlowLoad, OutcomeFailure)
		return fmt.Errorf("load activities: %w", err)
	}

	appended := c.render(c.doc, catalog)
	if catalog.Len() > 0 && appended == 0 {
		anomaly := &AnomalyError{Activities: catalog.Len()}
		c.logger.Error("board not updated after load", "error", anomaly)
		c.banner.show(anomalyText, model.MessageError)
		c.recorder.FlowCompleted(FlowLoad, OutcomeAnomaly)
		return anomaly
	}

	c.logger.Debug("activities rendered", "count", appended)
	c.recorder.FlowCompleted(FlowLoad, OutcomeSuccess)
	return nil
}

// Submit runs the signup flow with the values currently in the form. The
// submit button is disabled for the lifetime of the request; a second
// Submit in that window returns ErrBusy.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if hasAttr(c.doc.Submit, "disabled") {
		c.mu.Unlock()
		c.recorder.FlowCompleted(FlowSignup, OutcomeBusy)
		return ErrBusy
	}
	setAttr(c.doc.Submit, "disabled", "")
	setAttr(c.doc.Submit, origTextAttr, textContent(c.doc.Submit))
	setText(c.doc.Submit, busyLabel)

	email := c.doc.EmailValue()
	activity := c.doc.SelectedActivity()
	c.mu.Unlock()

	defer c.restoreSubmit()

	resp, err := c.api.Signup(ctx, activity, email)
	if err != nil {
		c.logger.Error("error signing up", "activity", activity, "email", email, "error", err)
		c.fail(FlowSignup, OutcomeFailure, signupFailedText)
		return fmt.Errorf("sign up: %w", err)
	}

	if !resp.OK() {
		appErr := &ApplicationError{Status: resp.Status, Detail: ErrorDetail(resp.Body)}
		c.logger.Warn("signup failed", "status", resp.Status, "body", string(resp.Body))
		c.fail(FlowSignup, OutcomeError, appErr.Error())
		return appErr
	}

	c.mu.Lock()
	c.banner.show(resp.Message(), model.MessageSuccess)
	c.doc.ResetForm()
	c.mu.Unlock()

	c.logger.Info("signup successful", "activity", activity, "email", email)
	c.recorder.FlowCompleted(FlowSignup, OutcomeSuccess)

	if err := c.Load(ctx); err != nil {
		c.logger.Error("failed to refresh activities after signup", "error", err)
	}
	return nil
}

func (c *Controller) restoreSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	removeAttr(c.doc.Submit, "disabled")
	if orig, _ := getAttr(c.doc.Submit, origTextAttr); orig != "" {
		setText(c.doc.Submit, orig)
	}
}

// Unregister removes email from activity. Delete controls carry no busy
// state, so concurrent calls are allowed.
func (c *Controller) Unregister(ctx context.Context, activity, email string) error {
	resp, err := c.api.Unregister(ctx, activity, email)
	if err != nil {
		c.logger.Error("error unregistering", "activity", activity, "email", email, "error", err)
		c.fail(FlowUnregister, OutcomeFailure, unregisterFailedText)
		return fmt.Errorf("unregister: %w", err)
	}

	if !resp.OK() {
		appErr := &ApplicationError{Status: resp.Status, Detail: ErrorDetail(resp.Body)}
		c.logger.Warn("unregister failed", "status", resp.Status, "body", string(resp.Body))
		c.fail(FlowUnregister, OutcomeError, appErr.Error())
		return appErr
	}

	c.mu.Lock()
	c.banner.show(resp.Message(), model.MessageSuccess)
	c.mu.Unlock()

	c.recorder.FlowCompleted(FlowUnregister, OutcomeSuccess)

	if err := c.Load(ctx); err != nil {
		c.logger.Error("failed to refresh activities after unregister", "error", err)
	}
	return nil
}

func (c *Controller) fail(flow, outcome, text string) {
	c.mu.Lock()
	c.banner.show(text, model.MessageError)
	c.mu.Unlock()

	c.recorder.FlowCompleted(flow, outcome)
}

// Click is the list's single delegated click handler. It finds the delete
// control enclosing node and unregisters the participant it addresses.
// Clicks anywhere else are ignored.
func (c *Controller) Click(ctx context.Context, node *html.Node) error {
	c.mu.Lock()
	activity, email, ok := c.deleteTarget(node)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Unregister(ctx, activity, email)
}

// ClickDelete clicks the rendered delete control for email in activity.
// It returns ErrNoControl when the board shows no such participant.
func (c *Controller) ClickDelete(ctx context.Context, activity, email string) error {
	c.mu.Lock()
	control := c.doc.DeleteControl(activity, email)
	c.mu.Unlock()

	if control == nil {
		return ErrNoControl
	}
	return c.Click(ctx, control)
}

// deleteTarget must be called with c.mu held.
func (c *Controller) deleteTarget(node *html.Node) (activity, email string, ok bool) {
	var control *html.Node
	for n := node; n != nil; n = n.Parent {
		if n == c.doc.List {
			if control == nil {
				return "", "", false
			}
			activity, _ = getAttr(control, "data-activity")
			email, _ = getAttr(control, "data-email")
			return activity, email, true
		}
		if control == nil && hasClass(n, classDeleteParticipant) {
			control = n
		}
	}
	// Detached by a re-render, or never inside the list.
	return "", "", false
}

// Fill types values into the signup form.
func (c *Controller) Fill(email, activity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Fill(email, activity)
}

// Render writes the current document as HTML.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return html.Render(w, c.doc.Root)
}

// HTML returns the current document as a string.
func (c *Controller) HTML() string {
	var b strings.Builder
	_ = c.Render(&b)
	return b.String()
}

// Status returns the message element's current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner.status()
}

// SubmitState reports whether the submit button is disabled and its label.
func (c *Controller) SubmitState() (disabled bool, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hasAttr(c.doc.Submit, "disabled"), textContent(c.doc.Submit)
}

// Close cancels the pending message timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner.stop()
}

func setParagraph(n *html.Node, s string) {
	clearChildren(n)
	n.AppendChild(withText(element("p"), s))
}
