// Package dialog drives the verification conversation: it dispatches
// each turn to the handler for the session's state, advances or
// retries on the validators' verdicts, and delegates to the generative
// responder once deterministic handling is exhausted.
package dialog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/voxverify/voxverify/internal/directory"
	"github.com/voxverify/voxverify/internal/domain"
	"github.com/voxverify/voxverify/internal/match"
	"github.com/voxverify/voxverify/internal/metrics"
	"github.com/voxverify/voxverify/internal/session"
	"github.com/voxverify/voxverify/internal/validate"
)

// Responder produces a free-form reply from the conversation so far.
// It is consulted when retries are exhausted or the input is ambiguous.
type Responder interface {
	Respond(ctx context.Context, history []domain.Message) (string, error)
}

// Config tunes the engine.
type Config struct {
	MaxRetries     int
	CandidateLimit int
	ListLimit      int
	MatchCutoff    float64
}

// DefaultConfig returns the tuning the service ships with.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		CandidateLimit: match.DefaultLimit,
		ListLimit:      10,
		MatchCutoff:    match.DefaultCutoff,
	}
}

// TurnResult is what one processed turn hands back to the transport.
// Completed is set only on the turn that reached the terminal state,
// so completion side effects run exactly once per session.
type TurnResult struct {
	Reply      string
	State      domain.State
	Candidates []string
	Completed  bool
}

// Engine orchestrates verification dialogues.
type Engine struct {
	store     session.Store
	dir       *directory.Directory
	validator *validate.Validator
	responder Responder
	metrics   *metrics.Metrics
	cfg       Config
}

// NewEngine wires the engine. A nil metrics instance falls back to the
// shared default; zero config values fall back to DefaultConfig.
func NewEngine(store session.Store, dir *directory.Directory, validator *validate.Validator, responder Responder, m *metrics.Metrics, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = def.CandidateLimit
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = def.ListLimit
	}
	if cfg.MatchCutoff <= 0 {
		cfg.MatchCutoff = def.MatchCutoff
	}
	if m == nil {
		m = metrics.Default
	}
	return &Engine{
		store:     store,
		dir:       dir,
		validator: validator,
		responder: responder,
		metrics:   m,
		cfg:       cfg,
	}
}

// StartSession registers a fresh session under id, replacing any
// previous one, and returns the opening greeting.
func (e *Engine) StartSession(id string) *TurnResult {
	sess := domain.NewSession(id)
	sess.AppendMessage(domain.RoleAssistant, Greeting)
	e.store.Put(sess)
	e.metrics.RecordSession()
	slog.Info("session created", "session_id", id)
	return &TurnResult{Reply: Greeting, State: sess.State}
}

// Turn processes one user input against the session. It returns
// session.ErrNotFound for unknown ids; every other failure mode
// resolves to a reply, so a turn against a live session cannot fail.
func (e *Engine) Turn(ctx context.Context, id, input string) (*TurnResult, error) {
	start := time.Now()
	var result *TurnResult
	err := e.store.With(id, func(sess *domain.Session) error {
		result = e.process(ctx, sess, strings.TrimSpace(input))
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.RecordTurn(time.Since(start))
	return result, nil
}

func (e *Engine) process(ctx context.Context, sess *domain.Session, input string) *TurnResult {
	sess.AppendMessage(domain.RoleUser, input)
	wasTerminal := sess.State.Terminal()

	reply := e.handle(ctx, sess, input)
	sess.AppendMessage(domain.RoleAssistant, reply)

	return &TurnResult{
		Reply:      reply,
		State:      sess.State,
		Candidates: append([]string(nil), sess.Candidates...),
		Completed:  sess.State.Terminal() && !wasTerminal,
	}
}

func (e *Engine) handle(ctx context.Context, sess *domain.Session, input string) string {
	switch sess.State {
	case domain.StateGreeting:
		return e.handleName(ctx, sess, input)
	case domain.StateCollectingExperience:
		return e.handleExperience(ctx, sess, input)
	case domain.StateCollectingDOB:
		return e.handleDOB(ctx, sess, input)
	case domain.StateCollectingEmail:
		return e.handleEmail(ctx, sess, input)
	case domain.StateVerifyingEmployment:
		return e.handleVerifyEmployment(ctx, sess, input)
	case domain.StateAskingCompany:
		return e.handleAskCompany(sess, input)
	case domain.StateSelectingCompany:
		return e.handleSelectCompany(sess, input)
	case domain.StateConfirmingUnknownCompany:
		return e.handleConfirmUnknown(sess, input)
	default:
		// Completed sessions keep the conversation open generatively.
		return e.fallback(ctx, sess)
	}
}

func (e *Engine) handleName(ctx context.Context, sess *domain.Session, input string) string {
	res := e.validator.Name(input)
	if !res.OK {
		return e.reject(ctx, sess, domain.FieldName, res.Reason)
	}
	sess.SetName(res.Value)
	sess.RetryCounts[domain.FieldName] = 0
	sess.State = domain.StateCollectingExperience
	return promptExperience(sess.FirstName())
}

func (e *Engine) handleExperience(ctx context.Context, sess *domain.Session, input string) string {
	res := e.validator.Experience(input)
	if !res.OK {
		return e.reject(ctx, sess, domain.FieldExperience, res.Reason)
	}
	sess.Fields[domain.FieldExperience] = res.Value
	sess.RetryCounts[domain.FieldExperience] = 0
	sess.State = domain.StateCollectingDOB
	if res.Confirm {
		return validate.ConfirmPrefix(domain.FieldExperience, res.Value) + promptDOB
	}
	return promptDOB
}

func (e *Engine) handleDOB(ctx context.Context, sess *domain.Session, input string) string {
	res := e.validator.DOB(input)
	if !res.OK {
		return e.reject(ctx, sess, domain.FieldDOB, res.Reason)
	}
	sess.Fields[domain.FieldDOB] = res.Value
	sess.RetryCounts[domain.FieldDOB] = 0
	sess.State = domain.StateCollectingEmail
	if res.Confirm {
		return validate.ConfirmPrefix(domain.FieldDOB, res.Value) + promptEmail(sess.FirstName())
	}
	return promptEmail(sess.FirstName())
}

func (e *Engine) handleEmail(ctx context.Context, sess *domain.Session, input string) string {
	res := e.validator.Email(input)
	if !res.OK {
		return e.reject(ctx, sess, domain.FieldEmail, res.Reason)
	}
	sess.Fields[domain.FieldEmail] = res.Value
	sess.RetryCounts[domain.FieldEmail] = 0

	if company, ok := e.dir.EmploymentFor(res.Value); ok {
		sess.Fields[domain.FieldRecordCompany] = company
		sess.State = domain.StateVerifyingEmployment
		return promptVerifyEmployment(sess.FirstName(), company)
	}
	sess.State = domain.StateAskingCompany
	return promptNoRecord(res.Value)
}

func (e *Engine) handleVerifyEmployment(ctx context.Context, sess *domain.Session, input string) string {
	switch classifyIntent(input) {
	case intentAffirmative:
		return e.complete(sess, sess.Fields[domain.FieldRecordCompany], promptVerifiedComplete(sess.FirstName()))
	case intentNegative:
		sess.State = domain.StateAskingCompany
		return promptAskCompany(sess.FirstName())
	default:
		return e.fallback(ctx, sess)
	}
}

// handleAskCompany never accepts an unrecognized employer outright:
// anything that is not an exact directory entry either produces fuzzy
// candidates or the general directory listing to select from.
func (e *Engine) handleAskCompany(sess *domain.Session, input string) string {
	if e.validator.IsDirectoryRequest(input) {
		return e.presentDirectory(sess, "")
	}
	if name, ok := e.dir.Canonical(input); ok {
		return e.complete(sess, name, promptRecordedCompany(sess.FirstName(), name))
	}
	candidates := match.Closest(input, e.dir.Companies(), e.cfg.CandidateLimit, e.cfg.MatchCutoff)
	if len(candidates) > 0 {
		sess.Candidates = candidates
		sess.State = domain.StateSelectingCompany
		return promptMatches(candidates)
	}
	return e.presentDirectory(sess, "")
}

func (e *Engine) handleSelectCompany(sess *domain.Session, input string) string {
	trimmed := strings.TrimSpace(input)

	// An out-of-range number is treated as manual entry below.
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(sess.Candidates) {
		name := sess.Candidates[n-1]
		return e.complete(sess, name, promptUpdatedCompany(sess.FirstName(), name))
	}
	if name, ok := e.dir.Canonical(trimmed); ok {
		return e.complete(sess, name, promptUpdatedCompany(sess.FirstName(), name))
	}
	if e.validator.IsDirectoryRequest(trimmed) {
		return e.presentDirectory(sess, "")
	}
	candidates := match.Closest(trimmed, e.dir.Companies(), e.cfg.CandidateLimit, e.cfg.MatchCutoff)
	if len(candidates) > 0 {
		sess.Candidates = candidates
		return promptMatches(candidates)
	}
	sess.Fields[domain.FieldPendingCompany] = trimmed
	sess.Candidates = nil
	sess.State = domain.StateConfirmingUnknownCompany
	return promptConfirmUnknown(trimmed)
}

func (e *Engine) handleConfirmUnknown(sess *domain.Session, input string) string {
	if classifyIntent(input) == intentAffirmative {
		pending := sess.Fields[domain.FieldPendingCompany]
		return e.complete(sess, pending, promptRecordedCompany(sess.FirstName(), pending))
	}
	return e.presentDirectory(sess, "No problem! ")
}

// presentDirectory shows the first entries of the company list and
// moves the session into selection.
func (e *Engine) presentDirectory(sess *domain.Session, prefix string) string {
	listing := e.dir.FirstN(e.cfg.ListLimit)
	sess.Candidates = listing
	sess.State = domain.StateSelectingCompany
	return prefix + promptDirectory(listing)
}

// complete finishes the dialogue with the resolved employer.
func (e *Engine) complete(sess *domain.Session, company, reply string) string {
	sess.Fields[domain.FieldCompany] = company
	sess.Candidates = nil
	sess.Verified = true
	sess.State = domain.StateCompleted
	e.metrics.RecordVerification()
	slog.Info("verification completed", "session_id", sess.ID, "company", company)
	return reply
}

// reject counts a failed attempt. Below the ceiling the validator's
// reason is the reply; at the ceiling and beyond the turn is delegated
// to the generative responder. State never changes on rejection.
func (e *Engine) reject(ctx context.Context, sess *domain.Session, field, reason string) string {
	sess.RetryCounts[field]++
	e.metrics.RecordValidationReject(field)
	if sess.RetryCounts[field] >= e.cfg.MaxRetries {
		return e.fallback(ctx, sess)
	}
	return reason
}

// fallback asks the generative responder for the reply. When it cannot
// answer, the state's deterministic question stands in, so a turn
// never fails outright on responder trouble.
func (e *Engine) fallback(ctx context.Context, sess *domain.Session) string {
	e.metrics.RecordFallback()
	if e.responder != nil {
		reply, err := e.responder.Respond(ctx, sess.History)
		if err == nil {
			return reply
		}
		e.metrics.RecordResponderError()
		slog.Warn("responder unavailable, using deterministic reprompt", "session_id", sess.ID, "error", err)
	}
	return reprompt(sess)
}
