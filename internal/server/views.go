package server

import (
	"time"

	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

type UserResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Score            int       `json:"score"`
	CorrectGuesses   int       `json:"correctGuesses"`
	IncorrectGuesses int       `json:"incorrectGuesses"`
	CreatedAt        time.Time `json:"createdAt"`
}

func userResponse(u globetrotter.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Score:            u.Score,
		CorrectGuesses:   u.CorrectGuesses,
		IncorrectGuesses: u.IncorrectGuesses,
		CreatedAt:        u.CreatedAt,
	}
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

func userSummary(u game.UserSummary) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Score: u.Score}
}

type DestinationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func destinationSummaries(ds []globetrotter.DestinationSummary) []DestinationSummary {
	out := make([]DestinationSummary, len(ds))
	for i, d := range ds {
		out[i] = DestinationSummary{ID: d.ID, Name: d.Name}
	}
	return out
}

// ChallengeResponse leaves out the destination, which is the answer.
type ChallengeResponse struct {
	ID         string    `json:"id"`
	InviteCode string    `json:"inviteCode"`
	CreatorID  string    `json:"creatorId"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func challengeResponse(c globetrotter.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:         c.ID,
		InviteCode: c.InviteCode,
		CreatorID:  c.CreatorID,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
	}
}

type InviteResponse struct {
	ID          string     `json:"id"`
	InviteCode  string     `json:"inviteCode"`
	ChallengeID string     `json:"challengeId"`
	SenderID    string     `json:"senderId"`
	RecipientID *string    `json:"recipientId"`
	IsAccepted  bool       `json:"isAccepted"`
	CreatedAt   time.Time  `json:"createdAt"`
	AcceptedAt  *time.Time `json:"acceptedAt"`
}

func inviteResponse(inv globetrotter.Invite) InviteResponse {
	return InviteResponse{
		ID:          inv.ID,
		InviteCode:  inv.InviteCode,
		ChallengeID: inv.ChallengeID,
		SenderID:    inv.SenderID,
		RecipientID: inv.RecipientID,
		IsAccepted:  inv.IsAccepted,
		CreatedAt:   inv.CreatedAt,
		AcceptedAt:  inv.AcceptedAt,
	}
}
