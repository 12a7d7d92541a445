// Package globetrotter defines the core domain types and error kinds.
// It imports nothing outside the standard library.
package globetrotter

import "time"

// CorrectGuessPoints is the score awarded for each correct guess.
const CorrectGuessPoints = 10

// MinDestinations is the smallest catalog that can produce a
// multiple-choice round.
const MinDestinations = 4

// OptionCount is the number of choices presented in every round.
const OptionCount = 4

type User struct {
	ID               string
	Username         string
	Score            int
	CorrectGuesses   int
	IncorrectGuesses int
	CreatedAt        time.Time
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Destination struct {
	ID    string
	Name  string
	Clues []Clue
	Facts []Fact
}

type DestinationSummary struct {
	ID   string
	Name string
}

type Clue struct {
	ID         string
	Text       string
	Difficulty Difficulty
}

// Fact is revealed after a guess. IsTrivia marks the lighthearted ones.
type Fact struct {
	ID       string
	Text     string
	IsTrivia bool
}

// Challenge pins one destination so other players can attempt the same
// round. InviteCode is the public lookup handle; acceptance goes through
// an Invite.
type Challenge struct {
	ID            string
	InviteCode    string
	CreatorID     string
	DestinationID string
	IsActive      bool
	CreatedAt     time.Time
}

// Invite points at a Challenge. RecipientID is bound by the first
// acceptor when the sender left it empty.
type Invite struct {
	ID          string
	InviteCode  string
	ChallengeID string
	SenderID    string
	RecipientID *string
	IsAccepted  bool
	CreatedAt   time.Time
	AcceptedAt  *time.Time
}

// GameSession is one attempt. IsCorrect is nil until the guess arrives.
type GameSession struct {
	ID            string
	UserID        string
	DestinationID string
	ChallengeID   *string
	IsCorrect     *bool
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

func (s GameSession) Resolved() bool { return s.IsCorrect != nil }
