package random

import "go.uber.org/zap"

// Sequence is a Source that replays a fixed list of values, cycling when
// exhausted. Tests substitute it for the seeded Generator.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a Sequence over values.
//
// Precondition: len(values) > 0 and every value is in [0, 1).
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("random: NewSequence requires at least one value")
	}
	return &Sequence{values: values}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Logged wraps a Source and logs every draw at debug level.
type Logged struct {
	src    Source
	logger *zap.Logger
	draws  int
}

// NewLogged returns a Logged source.
//
// Precondition: src and logger must be non-nil.
func NewLogged(src Source, logger *zap.Logger) *Logged {
	return &Logged{src: src, logger: logger}
}

// Float64 draws from the wrapped source and logs the value.
func (l *Logged) Float64() float64 {
	v := l.src.Float64()
	l.draws++
	l.logger.Debug("random draw",
		zap.Int("draw", l.draws),
		zap.Float64("value", v),
	)
	return v
}
