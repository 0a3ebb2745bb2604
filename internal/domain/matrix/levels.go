package matrix

import (
	"bytes"
	"encoding/json"
)

type LevelEntry struct {
	Skill string
	Level Level
}

// Levels is an ordered association from skill name to level. It marshals as a
// JSON object whose keys keep the skill display order.
type Levels []LevelEntry

func (ls Levels) Get(skill string) (Level, bool) {
	for _, e := range ls {
		if e.Skill == skill {
			return e.Level, true
		}
	}
	return 0, false
}

func (ls Levels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range ls {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Skill)
		if err != nil {
			return nil, err
		}
		v, err := e.Level.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
