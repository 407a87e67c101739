// Package dialog implements the guided criteria-collection flow: a strictly
// linear sequence of prompts with a two-button pet choice and an any-state
// cancellation. Sessions are transient per chat and never persisted.
package dialog

import (
	"github.com/puzpuzpuz/xsync/v3"

	"core/internal/extract"
)

// Stage is the current position of a session in the flow.
type Stage int

const (
	StageLocation Stage = iota
	StageBudget
	StageBedrooms
	StagePets
	StageDates
	StageComplete
)

// Prompts shown to the renter, one per stage.
const (
	PromptLocation = "🏝 В каком районе Самуи хотите жить? (Маенам, Бопхут, Чавенг, Ламай…)"
	PromptBudget   = "💰 Какой бюджет в месяц (в батах)? Можно диапазон, например 40-60."
	PromptBedrooms = "🛏 Сколько спален нужно?"
	PromptPets     = "🐾 Есть ли питомцы?"
	PromptDates    = "📅 С какой даты и на какой срок? (текстом)"

	ReplyCancelled = "❌ Опрос отменён. Введите /rent чтобы начать заново."
)

// Pet choice callback payloads, fixed two-button set.
const (
	PetChoiceYes = "pets:yes"
	PetChoiceNo  = "pets:no"
)

// session accumulates exactly the fields its passed stages have validated.
type session struct {
	stage   Stage
	answers extract.DialogueAnswers
}

// Machine owns all live sessions keyed by chat id. One chat is never driven
// by more than one logical flow at a time, but transport delivery may hop
// goroutines, so the registry is a concurrent map.
type Machine struct {
	sessions *xsync.MapOf[int64, *session]
}

func NewMachine() *Machine {
	return &Machine{sessions: xsync.NewMapOf[int64, *session]()}
}

// Begin starts a fresh session for the chat, discarding any prior partial
// one, and returns the first prompt.
func (m *Machine) Begin(chatID int64) string {
	m.sessions.Store(chatID, &session{stage: StageLocation})
	return PromptLocation
}

// Active reports whether the chat has a live session.
func (m *Machine) Active(chatID int64) bool {
	_, ok := m.sessions.Load(chatID)
	return ok
}

// Cancel terminates the session from any non-terminal state without emitting
// anything. Returns false when no session was live.
func (m *Machine) Cancel(chatID int64) bool {
	_, existed := m.sessions.LoadAndDelete(chatID)
	return existed
}

// Input feeds one free-text answer into the session. It returns the next
// prompt, and the completed answers once the final stage is passed. The
// session is deleted on completion, so a finished flow can never emit twice.
// needButtons is set when the machine is waiting for the pet choice, which
// only accepts the two fixed button events.
func (m *Machine) Input(chatID int64, text string) (prompt string, answers *extract.DialogueAnswers, needButtons bool, ok bool) {
	s, live := m.sessions.Load(chatID)
	if !live {
		return "", nil, false, false
	}

	switch s.stage {
	case StageLocation:
		s.answers.Location = text
		s.stage = StageBudget
		return PromptBudget, nil, false, true
	case StageBudget:
		s.answers.BudgetText = text
		s.stage = StageBedrooms
		return PromptBedrooms, nil, false, true
	case StageBedrooms:
		s.answers.BedroomsText = text
		s.stage = StagePets
		return PromptPets, nil, true, true
	case StagePets:
		// Free text is not accepted here; re-issue the button prompt.
		return PromptPets, nil, true, true
	case StageDates:
		s.answers.DatesText = text
		s.stage = StageComplete
		m.sessions.Delete(chatID)
		done := s.answers
		return "", &done, false, true
	default:
		return "", nil, false, false
	}
}

// Choose feeds the pet button choice. Valid only in the pet stage.
func (m *Machine) Choose(chatID int64, payload string) (prompt string, ok bool) {
	s, live := m.sessions.Load(chatID)
	if !live || s.stage != StagePets {
		return "", false
	}
	switch payload {
	case PetChoiceYes:
		s.answers.PetsRequired = true
	case PetChoiceNo:
		s.answers.PetsRequired = false
	default:
		return PromptPets, true
	}
	s.stage = StageDates
	return PromptDates, true
}
