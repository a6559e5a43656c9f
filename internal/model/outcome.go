// Package model holds the validated probability tables that drive the fight
// simulation: who wins, how, and in which round.
package model

import "fmt"

// Participant identifies a side of the contest. Draw is only ever a winner
// value on a sampled trial, never a configurable participant.
type Participant int

const (
	ParticipantA Participant = iota
	ParticipantB
	Draw
)

// Participants lists the two contestants in table order.
var Participants = [2]Participant{ParticipantA, ParticipantB}

func (p Participant) String() string {
	switch p {
	case ParticipantA:
		return "A"
	case ParticipantB:
		return "B"
	case Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Participant(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Participant) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Participant) UnmarshalText(text []byte) error {
	for _, candidate := range []Participant{ParticipantA, ParticipantB, Draw} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown participant %q", text)
}

// Method is the way a bout ends.
type Method int

const (
	MethodKO Method = iota
	MethodDecision
)

// Methods lists the victory methods in table order.
var Methods = [2]Method{MethodKO, MethodDecision}

func (m Method) String() string {
	switch m {
	case MethodKO:
		return "KO/TKO/DQ"
	case MethodDecision:
		return "Decision"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	for _, candidate := range Methods {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown method %q", text)
}

// Trial is one simulated bout. Decisions and draws carry the final scheduled
// round; stoppages carry the round the bout ended in.
type Trial struct {
	Index  int64       `json:"trial_index"`
	Winner Participant `json:"winner"`
	Method Method      `json:"method"`
	Round  int         `json:"round"`
	IsDraw bool        `json:"is_draw"`
}

// Label returns the outcome bucket used in distribution tables,
// e.g. "A KO/TKO/DQ" or "Draw".
func (t Trial) Label() string {
	if t.IsDraw {
		return Draw.String()
	}
	return t.Winner.String() + " " + t.Method.String()
}
