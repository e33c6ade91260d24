package cards

import (
	"encoding/json"
	"strconv"
)

// StatKind tags a printed stat value.
type StatKind uint8

const (
	// Absent means the card does not print the stat at all.
	Absent StatKind = iota
	// Fixed means the card prints a plain number.
	Fixed
	// Variable means the card prints an X, a dash or a per-investigator value.
	Variable
)

// String returns the kind name.
func (k StatKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	default:
		return "absent"
	}
}

// Stat is a tagged stat value. Value is only meaningful when Kind is Fixed.
type Stat struct {
	Kind  StatKind
	Value int
}

// FixedStat returns a fixed stat of n.
func FixedStat(n int) Stat { return Stat{Kind: Fixed, Value: n} }

// VariableStat returns a variable stat.
func VariableStat() Stat { return Stat{Kind: Variable} }

// AbsentStat returns an absent stat.
func AbsentStat() Stat { return Stat{} }

// NewStat maps the export encoding to a tagged value: nil is absent,
// a negative number is variable and anything else is fixed.
func NewStat(raw *int) Stat {
	switch {
	case raw == nil:
		return AbsentStat()
	case *raw < 0:
		return VariableStat()
	default:
		return FixedStat(*raw)
	}
}

// IsFixed reports whether the stat is a plain number.
func (s Stat) IsFixed() bool { return s.Kind == Fixed }

// IsVariable reports whether the stat is variable.
func (s Stat) IsVariable() bool { return s.Kind == Variable }

// IsAbsent reports whether the stat is not printed.
func (s Stat) IsAbsent() bool { return s.Kind == Absent }

// Int returns the fixed value and whether the stat is fixed.
func (s Stat) Int() (int, bool) {
	return s.Value, s.Kind == Fixed
}

// Raw converts the stat back to the export encoding, using -2 for variable.
func (s Stat) Raw() *int {
	switch s.Kind {
	case Fixed:
		v := s.Value
		return &v
	case Variable:
		v := -2
		return &v
	default:
		return nil
	}
}

// String renders the stat the way a card prints it.
func (s Stat) String() string {
	switch s.Kind {
	case Fixed:
		return strconv.Itoa(s.Value)
	case Variable:
		return "?"
	default:
		return ""
	}
}

// MarshalJSON encodes fixed stats as numbers, variable as "?" and absent as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case Fixed:
		return []byte(strconv.Itoa(s.Value)), nil
	case Variable:
		return []byte(`"?"`), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, "?" or null.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = AbsentStat()
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if text == "?" {
			*s = VariableStat()
			return nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return err
		}
		*s = NewStat(&n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = NewStat(&n)
	return nil
}
