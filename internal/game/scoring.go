package game

import "github.com/playperu/globetrotter/internal/globetrotter"

// Score applies one resolved guess to a user's stats: a correct guess adds
// CorrectGuessPoints and one correct guess, a wrong one adds one
// incorrect guess and leaves the score alone.
func Score(u globetrotter.User, correct bool) globetrotter.User {
	if correct {
		u.Score += globetrotter.CorrectGuessPoints
		u.CorrectGuesses++
	} else {
		u.IncorrectGuesses++
	}
	return u
}

// statsDelta is Score expressed as increments, so storage can apply it
// atomically with UPDATE ... SET col = col + ?.
type statsDelta struct {
	Score     int
	Correct   int
	Incorrect int
}

func scoreDelta(correct bool) statsDelta {
	u := Score(globetrotter.User{}, correct)
	return statsDelta{Score: u.Score, Correct: u.CorrectGuesses, Incorrect: u.IncorrectGuesses}
}
