package shazar

// State is a step of a packaging run. Done and Failed are terminal.
type State int

const (
	Idle State = iota
	Archiving
	Hashing
	Renaming
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Archiving:
		return "archiving"
	case Hashing:
		return "hashing"
	case Renaming:
		return "renaming"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}
