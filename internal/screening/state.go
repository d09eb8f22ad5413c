package screening

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
)

// Phase is a step of the screening conversation. Phases only move forward.
type Phase string

const (
	Intake    Phase = "intake"
	Consent   Phase = "consent"
	Technical Phase = "technical"
	Complete  Phase = "complete"
)

func (p Phase) rank() int {
	switch p {
	case Intake:
		return 0
	case Consent:
		return 1
	case Technical:
		return 2
	case Complete:
		return 3
	default:
		return -1
	}
}

// ConsentStatus records whether the candidate agreed to have the profile stored.
type ConsentStatus string

const (
	ConsentPending ConsentStatus = "pending"
	ConsentGranted ConsentStatus = "granted"
	ConsentDenied  ConsentStatus = "denied"
)

// CompletionReason tells why a session reached Complete.
type CompletionReason string

const (
	ReasonExit   CompletionReason = "exit"
	ReasonBudget CompletionReason = "budget"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleCandidate Role = "candidate"
)

// Profile is the candidate data collected during intake.
type Profile struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	YearsExperience  int    `json:"years_experience"`
	DesiredPositions string `json:"desired_positions"`
	CurrentLocation  string `json:"current_location"`
	TechStack        string `json:"tech_stack"`
}

// FirstName returns the first word of the full name.
func (p Profile) FirstName() string {
	if words := strings.Fields(p.FullName); len(words) > 0 {
		return words[0]
	}
	return ""
}

// QuestionRecord is one technical question and, once given, its answer.
type QuestionRecord struct {
	Index      int             `json:"index"`
	Category   skills.Category `json:"category"`
	Question   string          `json:"question"`
	Answer     *string         `json:"answer,omitempty"`
	AskedAt    time.Time       `json:"asked_at"`
	AnsweredAt *time.Time      `json:"answered_at,omitempty"`
}

// Answered reports whether the candidate already replied to the question.
func (q QuestionRecord) Answered() bool {
	return q.Answer != nil
}

// Message is a single line of the conversation transcript.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// State is everything known about one screening session. Only Machine mutates it.
type State struct {
	SessionID    string
	Phase        Phase
	Profile      Profile
	Seniority    string
	Skills       skills.Map
	Questions    []QuestionRecord
	Consent      ConsentStatus
	RoleSummary  string
	SkillSummary string
	// FieldIndex points at the next intake field to collect.
	FieldIndex  int
	Transcript  []Message
	Reason      CompletionReason
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewState starts a fresh session in the Intake phase.
func NewState() *State {
	return &State{
		SessionID: uuid.NewString(),
		Phase:     Intake,
		Consent:   ConsentPending,
		StartedAt: time.Now().UTC(),
	}
}

// TotalQuestions is the number of technical questions asked so far.
func (s *State) TotalQuestions() int {
	return len(s.Questions)
}

// CountByCategory returns the number of questions asked per category.
func (s *State) CountByCategory() map[skills.Category]int {
	return countByCategory(s.Questions)
}

// OpenQuestion returns the last question when it still waits for an answer.
func (s *State) OpenQuestion() *QuestionRecord {
	if len(s.Questions) == 0 {
		return nil
	}
	last := &s.Questions[len(s.Questions)-1]
	if last.Answered() {
		return nil
	}
	return last
}

// AnsweredCount is the number of questions with an answer.
func (s *State) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Answered() {
			n++
		}
	}
	return n
}

// Done reports whether the session is over.
func (s *State) Done() bool {
	return s.Phase == Complete
}

func (s *State) say(role Role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content, At: at})
}

func (s *State) clone() *State {
	out := *s
	out.Skills = s.Skills.Clone()
	out.Transcript = append([]Message(nil), s.Transcript...)
	out.Questions = make([]QuestionRecord, len(s.Questions))
	for i, q := range s.Questions {
		if q.Answer != nil {
			answer := *q.Answer
			q.Answer = &answer
		}
		if q.AnsweredAt != nil {
			at := *q.AnsweredAt
			q.AnsweredAt = &at
		}
		out.Questions[i] = q
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}

// Record is the immutable snapshot of a finished session handed to a RecordStore.
type Record struct {
	ID           string           `json:"id"`
	SessionID    string           `json:"session_id"`
	Profile      Profile          `json:"profile"`
	Seniority    string           `json:"seniority"`
	RoleSummary  string           `json:"role_summary,omitempty"`
	SkillSummary string           `json:"skill_summary,omitempty"`
	Skills       skills.Map       `json:"skills"`
	Questions    []QuestionRecord `json:"questions"`
	Consent      ConsentStatus    `json:"consent"`
	Reason       CompletionReason `json:"reason"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  time.Time        `json:"completed_at"`
}

// Snapshot copies the session into a new Record with its own id.
func (s *State) Snapshot() *Record {
	c := s.clone()
	completed := time.Now().UTC()
	if c.CompletedAt != nil {
		completed = *c.CompletedAt
	}
	if c.Skills == nil {
		c.Skills = skills.Map{}
	}
	if c.Questions == nil {
		c.Questions = []QuestionRecord{}
	}
	return &Record{
		ID:           uuid.NewString(),
		SessionID:    c.SessionID,
		Profile:      c.Profile,
		Seniority:    c.Seniority,
		RoleSummary:  c.RoleSummary,
		SkillSummary: c.SkillSummary,
		Skills:       c.Skills,
		Questions:    c.Questions,
		Consent:      c.Consent,
		Reason:       c.Reason,
		StartedAt:    c.StartedAt,
		CompletedAt:  completed,
	}
}

// SkillNames returns every skill of the record in category order.
func (r *Record) SkillNames() []string {
	return r.Skills.All()
}
