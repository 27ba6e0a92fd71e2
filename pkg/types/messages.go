package types

// Client -> Server (JSON over the /ws/{code} socket)
//
// create:
//   payload: { gameCode: string } // optional; must match the path code
//
// join:
//   payload: { name: string }
//
// answer:
//   payload: { answerIndex: 0..3, playerName: string }
//
// start:
//   payload: {}
//
// Invalid events are rejected silently: the server never replies with an
// error, and the next snapshot simply reflects the unchanged state.

// Server -> Client
//
// Every message is a full game snapshot (see snapshot.go), sent once
// immediately after connecting and again after every state mutation. There
// is no delta format.
