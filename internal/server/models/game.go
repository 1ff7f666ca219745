package models

// GameState is the singleton record of game progress. The two flags are
// independent: revealing never clears Assigned.
type GameState struct {
	Assigned      bool
	RevealEnabled bool
}

// Pairing is one giver→receiver edge of an assignment, by handle.
type Pairing struct {
	GiverID      string
	GiverName    string
	ReceiverID   string
	ReceiverName string
}
