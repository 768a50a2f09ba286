package pipeline

// Threshold is the minimum score a draft needs to be kept.
const Threshold = 80

// Decision is the quality gate verdict.
type Decision int

const (
	Reject Decision = iota
	Accept
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "reject"
}

// Admit accepts scores at or above Threshold.
func Admit(score int) Decision {
	if score >= Threshold {
		return Accept
	}
	return Reject
}
