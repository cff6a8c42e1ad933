package modes

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	// ModeDevelopment turns on extra checks, such as validating
	// programs before simulation
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}
