package models

import (
	"time"

	"github.com/treasury-reporter/internal/types"
)

// AuthorizedUser maps an external chat identity to an allow-listed email.
// The record lives only in the injected access store; losing the store
// means users re-register, nothing else.
type AuthorizedUser struct {
	ChatID       string     `json:"chatId"`
	Email        string     `json:"email"`
	Role         types.Role `json:"role"`
	RegisteredAt time.Time  `json:"registeredAt"`
}

// Subscriber is a broadcast recipient for the scheduled digest jobs.
type Subscriber struct {
	ChatID       string    `json:"chatId"`
	SubscribedAt time.Time `json:"subscribedAt"`
}
