package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Kind names an integration method.
type Kind int

const (
	KindEuler Kind = iota
	KindTrapezoidal
	KindRK4
)

var kindNames = map[Kind]string{
	KindEuler:       "euler",
	KindTrapezoidal: "trapezoidal",
	KindRK4:         "rk4",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every method in order of increasing accuracy.
func Kinds() []Kind {
	return []Kind{KindEuler, KindTrapezoidal, KindRK4}
}

// ParseKind accepts a method name, case-insensitively. "heun" and "rk2" are
// aliases for the trapezoidal method.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler":
		return KindEuler, nil
	case "trapezoidal", "trapezoid", "heun", "rk2":
		return KindTrapezoidal, nil
	case "rk4", "runge-kutta":
		return KindRK4, nil
	}
	return 0, fmt.Errorf("unknown integrator %q (available: euler, trapezoidal, rk4)", name)
}

func New(kind Kind) (dynamo.Integrator, error) {
	switch kind {
	case KindEuler:
		return NewEuler(), nil
	case KindTrapezoidal:
		return NewTrapezoidal(), nil
	case KindRK4:
		return NewRK4(), nil
	}
	return nil, fmt.Errorf("unknown integrator kind %d", int(kind))
}

// NewByName is ParseKind followed by New.
func NewByName(name string) (dynamo.Integrator, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return New(kind)
}
