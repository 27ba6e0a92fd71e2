package types

import "encoding/json"

// ClientMessage is the envelope for every client->server event. The payload
// shape depends on the type; see pkg/types for the protocol reference.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreatePayload struct {
	GameCode string `json:"gameCode"`
}

type JoinPayload struct {
	Name string `json:"name"`
}

type AnswerPayload struct {
	AnswerIndex int    `json:"answerIndex"`
	PlayerName  string `json:"playerName"`
}
