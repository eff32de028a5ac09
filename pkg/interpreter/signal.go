package interpreter

type Signal int

const (
	SignalNone Signal = iota
	SignalSkip
	SignalShatter
	SignalReturn
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalSkip:
		return "skip"
	case SignalShatter:
		return "shatter"
	case SignalReturn:
		return "zipback"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating a statement. For SignalReturn, Value is
// the returned value. For SignalSkip and SignalShatter, Value is the last
// value produced before the signal, or nil if there was none.
type Result struct {
	Value  Value
	Signal Signal
}

func evaluated(v Value) Result {
	return Result{Value: v}
}
