package model

type Verdict string

const (
	VerdictWon  Verdict = "won"
	VerdictLost Verdict = "lost"
	VerdictTied Verdict = "tied"
)

// Outcome is what the result modal shows. Amount is always non-negative;
// it is the number of points won or lost, zero for a tie.
type Outcome struct {
	Verdict Verdict
	Amount  int
}
