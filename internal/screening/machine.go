package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/logger"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/utils"
)

const (
	DefaultExitCommand     = "exit"
	DefaultQuestionHistory = 5
	DefaultAnswerHistory   = 3

	maxLogLength = 120
)

var metaRequests = map[string]struct{}{
	"help":    {},
	"huh":     {},
	"huh?":    {},
	"pardon":  {},
	"pardon?": {},
	"what?":   {},
}

// RecordStore persists finished screenings.
type RecordStore interface {
	Append(ctx context.Context, record *Record) error
}

// Reply is what the assistant says after a turn.
type Reply struct {
	Messages []string
	// Notices are transient warnings that are not part of the conversation.
	Notices []string
	Phase   Phase
	Done    bool
	// Invalid is set when an intake field was rejected and will be asked again.
	Invalid *ValidationError
}

func (r *Reply) notice(msg string) {
	r.Notices = append(r.Notices, msg)
}

// Machine drives the screening conversation. It keeps no per-session data, so a single
// Machine can serve any number of States as long as each State is used by one
// goroutine at a time.
type Machine struct {
	gateway         ai.Gateway
	store           RecordStore
	logger          *zap.Logger
	limits          Limits
	exitCommand     string
	questionHistory int
	answerHistory   int
	now             func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithLimits overrides the question budget.
func WithLimits(limits Limits) Option {
	return func(m *Machine) {
		m.limits = limits.normalized()
	}
}

// WithExitCommand sets the word that ends the session from any phase.
func WithExitCommand(command string) Option {
	return func(m *Machine) {
		if command = strings.TrimSpace(command); command != "" {
			m.exitCommand = command
		}
	}
}

// WithHistory sets how many previous questions and answers of a category are sent
// along with a question request.
func WithHistory(questions, answers int) Option {
	return func(m *Machine) {
		if questions > 0 {
			m.questionHistory = questions
		}
		if answers > 0 {
			m.answerHistory = answers
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMachine builds a Machine. store may be nil, in which case nothing is persisted.
func NewMachine(gateway ai.Gateway, store RecordStore, logger *zap.Logger, opts ...Option) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Machine{
		gateway:         gateway,
		store:           store,
		logger:          logger,
		limits:          DefaultLimits(),
		exitCommand:     DefaultExitCommand,
		questionHistory: DefaultQuestionHistory,
		answerHistory:   DefaultAnswerHistory,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Limits returns the question budget in use.
func (m *Machine) Limits() Limits {
	return m.limits
}

// ExitCommand returns the word that ends the session.
func (m *Machine) ExitCommand() string {
	return m.exitCommand
}

// Start greets the candidate and asks for the first field. On a state that already
// has a conversation it repeats the last assistant message.
func (m *Machine) Start(state *State) *Reply {
	reply := &Reply{Phase: state.Phase, Done: state.Done()}

	if len(state.Transcript) > 0 {
		for i := len(state.Transcript) - 1; i >= 0; i-- {
			if state.Transcript[i].Role == RoleAssistant {
				reply.Messages = append(reply.Messages, state.Transcript[i].Content)
				break
			}
		}
		return reply
	}

	m.say(state, reply, greeting(m.exitCommand))
	m.say(state, reply, fieldPrompt(IntakeFields[state.FieldIndex]))
	return reply
}

// Handle processes one candidate input. The turn is applied to state only when it
// succeeds; on a *GatewayError state is left exactly as it was.
func (m *Machine) Handle(ctx context.Context, state *State, input string) (*Reply, error) {
	if state == nil {
		return nil, errors.New("screening state is required")
	}

	log := logger.WithFields(m.logger, logger.SessionFields(state.SessionID, string(state.Phase))...)

	if state.Done() {
		log.Debug("input after completion ignored")
		return &Reply{Messages: []string{msgSessionOver}, Phase: Complete, Done: true}, nil
	}

	next := state.clone()
	next.say(RoleCandidate, input, m.now())
	reply := &Reply{}

	var err error
	switch {
	case m.isExit(input):
		log.Info("exit requested")
		m.complete(ctx, next, ReasonExit, reply, log)
	case next.Phase == Intake:
		err = m.handleIntake(ctx, next, input, reply, log)
	case next.Phase == Consent:
		err = m.handleConsent(ctx, next, input, reply, log)
	case next.Phase == Technical:
		err = m.handleTechnical(ctx, next, input, reply, log)
	default:
		err = fmt.Errorf("unknown phase %q", next.Phase)
	}

	if err != nil {
		var invalid *ValidationError
		if !errors.As(err, &invalid) {
			log.Warn("turn not applied", zap.Error(err))
			return nil, err
		}
		log.Debug("intake field rejected", zap.String("field", string(invalid.Field)))
		reply.Invalid = invalid
		m.say(next, reply, invalid.Hint)
	}

	if next.Phase.rank() < state.Phase.rank() {
		return nil, fmt.Errorf("phase cannot move from %s back to %s", state.Phase, next.Phase)
	}
	if next.Phase != state.Phase {
		log.Info("phase changed", zap.String("to", string(next.Phase)))
	}

	*state = *next
	reply.Phase = state.Phase
	reply.Done = state.Done()
	return reply, nil
}

func (m *Machine) handleIntake(ctx context.Context, state *State, input string, reply *Reply, log *zap.Logger) error {
	if state.FieldIndex >= len(IntakeFields) {
		return fmt.Errorf("intake field index %d out of range", state.FieldIndex)
	}

	field := IntakeFields[state.FieldIndex]
	if err := state.Profile.set(field, input); err != nil {
		return err
	}

	switch field {
	case FieldFullName:
		m.say(state, reply, niceToMeetYou(state.Profile.FullName))
	case FieldYearsExperience:
		state.Seniority = SeniorityFor(state.Profile.YearsExperience)
		m.say(state, reply, seniorityAck(state.Seniority))
	}

	state.FieldIndex++
	if state.FieldIndex < len(IntakeFields) {
		m.say(state, reply, fieldPrompt(IntakeFields[state.FieldIndex]))
		return nil
	}

	state.Skills = skills.Categorize(state.Profile.TechStack)
	state.Seniority = SeniorityFor(state.Profile.YearsExperience)
	log.Info("intake finished",
		zap.Int("categories", state.Skills.Len()),
		zap.String("seniority", state.Seniority),
	)

	m.summarize(ctx, state, reply, log)

	state.Phase = Consent
	m.say(state, reply, consentPrompt())
	return nil
}

// summarize asks for the role and skill summaries. Failures only leave the summary
// empty.
func (m *Machine) summarize(ctx context.Context, state *State, reply *Reply, log *zap.Logger) {
	role, err := m.invoke(ctx, ai.RoleUnderstanding, ai.RoleContext{
		DesiredPositions: state.Profile.DesiredPositions,
		YearsExperience:  state.Profile.YearsExperience,
	})
	if err != nil {
		log.Warn("role summary unavailable", zap.Error(err))
	}
	state.RoleSummary = role

	summary, err := m.invoke(ctx, ai.SkillSummary, ai.SkillContext{TechStack: state.Profile.TechStack})
	if err != nil {
		log.Warn("skill summary unavailable", zap.Error(err))
	}
	state.SkillSummary = summary

	if state.RoleSummary == "" || state.SkillSummary == "" {
		reply.notice(msgSummaryUnavailable)
	}
}

func (m *Machine) handleConsent(ctx context.Context, state *State, input string, reply *Reply, log *zap.Logger) error {
	switch parseConsent(input) {
	case ConsentGranted:
		state.Consent = ConsentGranted
		m.say(state, reply, msgConsentGranted)
	case ConsentDenied:
		state.Consent = ConsentDenied
		m.say(state, reply, msgConsentDenied)
	default:
		m.say(state, reply, msgConsentUnclear)
		return nil
	}

	log.Info("consent recorded", zap.String("consent", string(state.Consent)))
	state.Phase = Technical
	return m.askNext(ctx, state, reply, log)
}

func (m *Machine) handleTechnical(ctx context.Context, state *State, input string, reply *Reply, log *zap.Logger) error {
	open := state.OpenQuestion()
	if open == nil {
		return m.askNext(ctx, state, reply, log)
	}

	if isAmbiguous(input) {
		m.fallback(ctx, state, input, reply, log)
		return nil
	}

	answer := strings.TrimSpace(input)
	at := m.now()
	open.Answer = &answer
	open.AnsweredAt = &at

	switch answered := state.AnsweredCount(); {
	case answered == 1:
		m.say(state, reply, msgFirstAnswer)
	case answered%5 == 0:
		m.say(state, reply, msgEveryFifthAnswer)
	}

	return m.askNext(ctx, state, reply, log)
}

// askNext consults the budget and either appends the next question or completes.
func (m *Machine) askNext(ctx context.Context, state *State, reply *Reply, log *zap.Logger) error {
	category, done := NextCategory(state.Skills, state.Questions, m.limits)
	if done {
		m.complete(ctx, state, ReasonBudget, reply, log)
		return nil
	}

	question, err := m.invoke(ctx, ai.TechnicalQuestion, m.questionContext(state, category))
	if err != nil {
		return err
	}

	state.Questions = append(state.Questions, QuestionRecord{
		Index:    len(state.Questions) + 1,
		Category: category,
		Question: question,
		AskedAt:  m.now(),
	})
	m.say(state, reply, question)

	log.Debug("question asked",
		zap.Int("index", len(state.Questions)),
		zap.String("category", string(category)),
		zap.String("question", utils.TruncateForLog(question, maxLogLength)),
	)
	return nil
}

func (m *Machine) questionContext(state *State, category skills.Category) ai.QuestionContext {
	var questions, answers []string
	for _, q := range state.Questions {
		if q.Category != category {
			continue
		}
		questions = append(questions, q.Question)
		if q.Answered() {
			answers = append(answers, *q.Answer)
		}
	}

	// The most recent answer may belong to any category.
	lastAnswer := ""
	for i := len(state.Questions) - 1; i >= 0; i-- {
		if q := state.Questions[i]; q.Answered() {
			lastAnswer = *q.Answer
			break
		}
	}

	categorySkills := state.Skills.Skills(category)
	if category == skills.General {
		categorySkills = state.Skills.All()
	}

	return ai.QuestionContext{
		FullName:          state.Profile.FullName,
		YearsExperience:   state.Profile.YearsExperience,
		SeniorityLabel:    state.Seniority,
		RoleSummary:       state.RoleSummary,
		Category:          string(category),
		Skills:            categorySkills,
		QuestionNumber:    len(questions) + 1,
		PreviousQuestions: lastN(questions, m.questionHistory),
		PreviousAnswers:   lastN(answers, m.answerHistory),
		LastAnswer:        lastAnswer,
	}
}

// fallback redirects the candidate without touching the question budget.
func (m *Machine) fallback(ctx context.Context, state *State, input string, reply *Reply, log *zap.Logger) {
	log.Debug("redirecting candidate", zap.Error(ErrAmbiguousInput))

	text, err := m.invoke(ctx, ai.Fallback, ai.FallbackContext{Message: input, Phase: string(state.Phase)})
	if err != nil {
		log.Warn("fallback response unavailable", zap.Error(err))
		text = fallbackMessage(m.exitCommand)
	}
	m.say(state, reply, text)
}

func (m *Machine) complete(ctx context.Context, state *State, reason CompletionReason, reply *Reply, log *zap.Logger) {
	at := m.now()
	state.Phase = Complete
	state.Reason = reason
	state.CompletedAt = &at

	capReached := reason == ReasonBudget && state.TotalQuestions() >= m.limits.MaxTotalQuestions
	m.say(state, reply, completionMessage(state.Profile.FirstName(), capReached))

	log.Info("screening complete",
		zap.String("reason", string(reason)),
		zap.Int("questions", state.TotalQuestions()),
		zap.String("consent", string(state.Consent)),
	)

	if state.Consent != ConsentGranted || m.store == nil {
		return
	}

	record := state.Snapshot()
	if err := m.store.Append(ctx, record); err != nil {
		perr := &PersistenceError{Err: err}
		log.Error("screening record not stored", zap.Error(perr))
		reply.notice(msgRecordNotStored)
		return
	}
	log.Info("screening record stored", zap.String("record_id", record.ID))
}

// invoke calls the gateway and wraps any failure in a *GatewayError.
func (m *Machine) invoke(ctx context.Context, template ai.Template, data any) (string, error) {
	if m.gateway == nil {
		return "", &GatewayError{Template: template, Err: errors.New("no gateway configured")}
	}

	fields, err := ai.ToFields(data)
	if err != nil {
		return "", &GatewayError{Template: template, Err: err}
	}

	text, err := m.gateway.Invoke(ctx, template, fields)
	if err != nil {
		return "", &GatewayError{Template: template, Err: err}
	}

	if text = strings.TrimSpace(text); text == "" {
		return "", &GatewayError{Template: template, Err: errEmptyResponse}
	}
	return text, nil
}

func (m *Machine) say(state *State, reply *Reply, msg string) {
	state.say(RoleAssistant, msg, m.now())
	reply.Messages = append(reply.Messages, msg)
}

func (m *Machine) isExit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), m.exitCommand)
}

// isAmbiguous reports input that is empty, has no letters or digits, or is a bare
// request for help.
func isAmbiguous(input string) bool {
	text := strings.ToLower(strings.TrimSpace(input))
	if !hasLetterOrDigit(text) {
		return true
	}
	_, ok := metaRequests[text]
	return ok
}

func lastN(items []string, n int) []string {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
