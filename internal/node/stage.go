package node

import "fmt"

// Stage records which processing step created a record. A pass only reads
// records of the stage before it, so the stage doubles as a generation tag.
type Stage uint8

const (
	StageSource Stage = iota
	StageLex
	StageRecognize
	StageClose
	StageFold
	StageOwner
	StageMerge
	StageRender

	stageCount
)

var stageNames = [stageCount]string{
	StageSource:    "source",
	StageLex:       "lex",
	StageRecognize: "recognize",
	StageClose:     "close",
	StageFold:      "fold",
	StageOwner:     "owner",
	StageMerge:     "merge",
	StageRender:    "render",
}

// Stages returns all stages in pipeline order.
func Stages() []Stage {
	out := make([]Stage, 0, stageCount)
	for s := StageSource; s < stageCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStage resolves a stage from its String form.
func ParseStage(name string) (Stage, bool) {
	for s, n := range stageNames {
		if n == name {
			return Stage(s), true
		}
	}
	return 0, false
}

func (s Stage) String() string {
	if s >= stageCount {
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
	return stageNames[s]
}

// MarshalYAML encodes the stage by name.
func (s Stage) MarshalYAML() (any, error) {
	if s >= stageCount {
		return nil, fmt.Errorf("%w: invalid stage %d", ErrCorruptGraph, uint8(s))
	}
	return s.String(), nil
}

// UnmarshalYAML decodes a stage name.
func (s *Stage) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, ok := ParseStage(name)
	if !ok {
		return fmt.Errorf("%w: unknown stage %q", ErrCorruptGraph, name)
	}
	*s = parsed
	return nil
}
