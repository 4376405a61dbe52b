package models

// Signal is the binary recall result of one playback round. Any input device
// maps onto these two values; nothing device-specific is recorded.
type Signal int

const (
	// SignalNotUnderstood means the phrase was not recalled this round.
	SignalNotUnderstood Signal = iota
	// SignalUnderstood means the phrase was recalled.
	SignalUnderstood
)

// String returns a human-readable name for the signal.
func (s Signal) String() string {
	if s == SignalUnderstood {
		return "understood"
	}
	return "not_understood"
}

// SessionOutcome is the ordered signal sequence collected during one
// presentation. It ends either with an understood signal or when the allowed
// replays are exhausted.
type SessionOutcome struct {
	Signals []Signal
}

// Understood reports whether the presentation eventually succeeded.
func (o SessionOutcome) Understood() bool {
	for _, s := range o.Signals {
		if s == SignalUnderstood {
			return true
		}
	}
	return false
}

// Hesitated reports whether success came only after at least one
// not-understood signal.
func (o SessionOutcome) Hesitated() bool {
	return o.Understood() && len(o.Signals) > 0 && o.Signals[0] != SignalUnderstood
}
