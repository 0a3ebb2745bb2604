package matrix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidLevel = errors.New("invalid level")

// Level is a stored proficiency value. 0 means "not applicable" and travels
// on the wire as "X"; 1-4 travel as plain integers.
type Level int

const (
	LevelNone    Level = 0
	LevelMin     Level = 1
	LevelMax     Level = 4
	LevelInitial Level = 1
)

const wireNone = "X"

func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelMax
}

func (l Level) String() string {
	if l == LevelNone {
		return wireNone
	}
	return strconv.Itoa(int(l))
}

// ToWire converts a stored value into its wire form: "X" for 0, the integer otherwise.
func ToWire(stored int) any {
	if stored == int(LevelNone) {
		return wireNone
	}
	return stored
}

// ParseLevel converts a wire value ("X", a JSON number, or a numeric string) into a Level.
func ParseLevel(wire any) (Level, error) {
	switch v := wire.(type) {
	case Level:
		if !v.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, int(v))
		}
		return v, nil
	case string:
		return parseLevelString(v)
	case json.Number:
		return parseLevelString(v.String())
	case int:
		return levelFromInt(int64(v))
	case int64:
		return levelFromInt(v)
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("%w: %v", ErrInvalidLevel, v)
		}
		return levelFromInt(int64(v))
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidLevel, wire)
	}
}

func parseLevelString(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == wireNone {
		return LevelNone, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return levelFromInt(n)
}

// levelFromInt rejects 0: a numeric zero is not a wire level, only "X" is.
func levelFromInt(n int64) (Level, error) {
	if n < int64(LevelMin) || n > int64(LevelMax) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, n)
	}
	return Level(n), nil
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToWire(int(l)))
}

func (l *Level) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: null", ErrInvalidLevel)
	}

	v, err := ParseLevel(raw)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
