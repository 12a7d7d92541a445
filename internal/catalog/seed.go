package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// DemoDestinations is the starter catalog loaded by Seed.
var DemoDestinations = []globetrotter.Destination{
	{
		Name: "Eiffel Tower",
		Clues: []globetrotter.Clue{
			{Text: "I was built for a World Fair in 1889", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I was once the tallest man-made structure in the world", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I am made of iron and located in a European capital", Difficulty: globetrotter.DifficultyEasy},
		},
		Facts: []globetrotter.Fact{
			{Text: "The Eiffel Tower was originally intended to be a temporary structure"},
			{Text: "It takes 20,000 light bulbs to make the Eiffel Tower sparkle at night", IsTrivia: true},
			{Text: "Heat makes the iron expand, so the tower is up to 15 cm taller in summer", IsTrivia: true},
		},
	},
	{
		Name: "Taj Mahal",
		Clues: []globetrotter.Clue{
			{Text: "I was built as a mausoleum by an emperor for his favorite wife", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I am made of white marble and change color throughout the day", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I am located on the banks of the Yamuna River", Difficulty: globetrotter.DifficultyHard},
		},
		Facts: []globetrotter.Fact{
			{Text: "The Taj Mahal took approximately 22 years to complete"},
			{Text: "Over 20,000 workers and 1,000 elephants were used to build the Taj Mahal", IsTrivia: true},
			{Text: "The Taj Mahal is symmetrical in every way except the placement of the cenotaphs", IsTrivia: true},
		},
	},
	{
		Name: "Great Wall of China",
		Clues: []globetrotter.Clue{
			{Text: "I am over 13,000 miles long", Difficulty: globetrotter.DifficultyEasy},
			{Text: "I was built to protect an ancient empire from nomadic invaders", Difficulty: globetrotter.DifficultyMedium},
			{Text: "My construction began over 2,000 years ago", Difficulty: globetrotter.DifficultyMedium},
		},
		Facts: []globetrotter.Fact{
			{Text: "The Great Wall is a collection of walls built by different dynasties"},
			{Text: "Walking its entire length would take about 18 months", IsTrivia: true},
			{Text: "Sticky rice was mixed into the mortar of some sections", IsTrivia: true},
		},
	},
	{
		Name: "Machu Picchu",
		Clues: []globetrotter.Clue{
			{Text: "I am an ancient citadel set high in the mountains", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I was built by the Inca civilization in the 15th century", Difficulty: globetrotter.DifficultyMedium},
			{Text: `I was "rediscovered" by Hiram Bingham in 1911`, Difficulty: globetrotter.DifficultyHard},
		},
		Facts: []globetrotter.Fact{
			{Text: "Machu Picchu was built without wheels, iron tools, or mortar"},
			{Text: "The stones are cut so precisely that a knife blade cannot fit between them", IsTrivia: true},
			{Text: "It has over 100 separate flights of stairs, many carved from a single slab", IsTrivia: true},
		},
	},
	{
		Name: "Statue of Liberty",
		Clues: []globetrotter.Clue{
			{Text: "I was a gift from France to the United States", Difficulty: globetrotter.DifficultyMedium},
			{Text: "I hold a torch in my right hand and a tablet in my left", Difficulty: globetrotter.DifficultyEasy},
			{Text: "I am made of copper that has turned green over time", Difficulty: globetrotter.DifficultyMedium},
		},
		Facts: []globetrotter.Fact{
			{Text: "The statue was delivered in 350 pieces packed in 214 crates"},
			{Text: "The seven spikes on the crown represent the seven seas and seven continents", IsTrivia: true},
			{Text: `Its full name is "Liberty Enlightening the World"`, IsTrivia: true},
		},
	},
}

// Seed loads dests into an empty catalog. It does nothing and reports
// false if any destination already exists.
func Seed(ctx context.Context, db *sql.DB, dests []globetrotter.Destination) (bool, error) {
	seeded := false
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, d := range dests {
			if err := insertDestination(ctx, tx, d); err != nil {
				return fmt.Errorf("seeding %q: %w", d.Name, err)
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func insertDestination(ctx context.Context, q database.Querier, d globetrotter.Destination) error {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := q.ExecContext(ctx, `INSERT INTO destinations (id, name) VALUES (?, ?)`, id, d.Name); err != nil {
		return err
	}
	for i, c := range d.Clues {
		_, err := q.ExecContext(ctx, `
			INSERT INTO clues (id, destination_id, position, text, difficulty)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), id, i, c.Text, string(c.Difficulty))
		if err != nil {
			return err
		}
	}
	for i, f := range d.Facts {
		_, err := q.ExecContext(ctx, `
			INSERT INTO facts (id, destination_id, position, text, is_trivia)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), id, i, f.Text, database.BoolInt(f.IsTrivia))
		if err != nil {
			return err
		}
	}
	return nil
}
