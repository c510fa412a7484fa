package animation

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// Kind selects the per-frame color algorithm.
type Kind int

const (
	Solid Kind = iota
	Rainbow
	Breath
	Loop
)

var kindNames = [...]string{
	Solid:   "solid",
	Rainbow: "rainbow",
	Breath:  "breath",
	Loop:    "loop",
}

// Kinds lists every pattern kind in declaration order.
func Kinds() []Kind {
	return []Kind{Solid, Rainbow, Breath, Loop}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the four pattern kinds.
func (k Kind) Valid() bool {
	return k >= Solid && k <= Loop
}

// NeedsColors reports whether the pattern reads the supplied palette.
func (k Kind) NeedsColors() bool {
	return k != Rainbow
}

// ParseKind maps a pattern name such as "loop" to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, errors.Errorf("unknown pattern %q", name)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Command asks the engine to switch pattern and palette. Treat it as
// immutable once built.
type Command struct {
	ID     ulid.ULID
	Kind   Kind
	Colors []ring.Color
}

// NewCommand copies colors so later changes by the caller cannot leak into
// a queued command.
func NewCommand(kind Kind, colors []ring.Color) Command {
	return Command{
		ID:     ulid.Make(),
		Kind:   kind,
		Colors: append([]ring.Color(nil), colors...),
	}
}
