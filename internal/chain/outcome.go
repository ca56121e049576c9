package chain

// Outcome is the result of validating a block against its predecessor.
type Outcome int

const (
	Valid Outcome = iota
	LinkMismatch
	DifficultyFailure
	SequenceGap
	HashMismatch
)

var outcomeNames = map[Outcome]string{
	Valid:             "valid",
	LinkMismatch:      "link_mismatch",
	DifficultyFailure: "difficulty_failure",
	SequenceGap:       "sequence_gap",
	HashMismatch:      "hash_mismatch",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Outcomes lists every rejection outcome, in check order.
func Outcomes() []Outcome {
	return []Outcome{LinkMismatch, DifficultyFailure, SequenceGap, HashMismatch}
}
