package models

type BlockMode int

const (
	ModeAbsent BlockMode = iota
	ModeEngaged
	ModeReleased
	ModeMixed
)

func (m BlockMode) String() string {
	switch m {
	case ModeEngaged:
		return "engaged"
	case ModeReleased:
		return "released"
	case ModeMixed:
		return "mixed"
	default:
		return "absent"
	}
}
