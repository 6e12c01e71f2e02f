package fall

import (
	"time"

	"github.com/google/uuid"
)

// ParseStats reports the wall-clock cost of a single Parse call, grounded
// on fall_tree's FileStats (lexing_time / parsing_time).
type ParseStats struct {
	LexTime   time.Duration
	ParseTime time.Duration
}

// TraceEvent is delivered to a WithTrace callback at each rule entry the
// interpreter attempts, for debugging a grammar's backtracking without
// stepping through it under a debugger.
type TraceEvent struct {
	RuleIndex int
	Position  int
	Token     NodeType
}

// ParseOption configures a Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	trace func(TraceEvent)
}

// WithTrace registers a callback invoked once per rule-entry attempt during
// interpretation, in the order attempted. It is intended for diagnosing why
// a grammar backtracked a particular way; it has no effect on the parse
// result.
func WithTrace(fn func(TraceEvent)) ParseOption {
	return func(c *parseConfig) { c.trace = fn }
}

// Parse tokenizes text with rules, interprets ruleTable's grammar against
// the resulting stream, and returns the resulting File together with its
// lexing/parsing timings. This is the engine's one-shot entry point, tying
// together the lexer, the Grammar IR interpreter, and the tree builder,
// grounded on original_source/src/builder.rs's free `parse` function and
// on gotreesitter.Parser's two-call (tokenize, then drive) shape.
func Parse(text string, rules []LexRule, ruleTable RuleTable, types NodeTypeTable, opts ...ParseOption) (*File, ParseStats) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	lexStart := time.Now()
	tokens := Tokenize(text, rules)
	lexTime := time.Since(lexStart)

	nodeTypes := make([]NodeType, len(types))
	for i := range types {
		nodeTypes[i] = NodeType(i)
	}

	interp := NewInterpreter(nodeTypes, ruleTable)
	interp.trace = cfg.trace

	parseStart := time.Now()
	id, err := uuid.NewRandom()
	if err != nil {
		id = uuid.Nil
	}
	stats := ParseStats{}
	file := interp.Parse(text, tokens, types, id, stats)
	parseTime := time.Since(parseStart)

	stats = ParseStats{LexTime: lexTime, ParseTime: parseTime}
	file.stats = stats
	return file, stats
}
