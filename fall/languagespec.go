package fall

import (
	"encoding/json"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// LanguageSpec is a data-driven description of a language's lex rules,
// grammar, and node-type names, loaded from YAML fixtures. This engine has
// no per-language generated Go source, so its test languages and any
// embedder wanting to avoid writing Go literals load the equivalent tables
// from a file instead. LexRules turns it into the []LexRule Parse expects,
// so a loaded spec can drive a real parse rather than just round-tripping
// its YAML. SkipSet resolves the declared skip-set names; Parse takes no
// skip set and always uses the default {WHITESPACE}, so extra entries only
// take effect on a TreeBuilder through its Skip method.
type LanguageSpec struct {
	Types []NodeTypeInfo
	Lex   []rawLexRule
	Skip  []string
	Rules RuleTable
}

type rawLexRule struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// yamlLanguage is the on-disk shape: plain maps and lists that mirror a
// hand-written grammar file, with looser typing than the in-memory model
// (e.g. a rule's "ty" may be written as a YAML int, string digit, or
// omitted) resolved here via spf13/cast.
type yamlLanguage struct {
	Types []string      `yaml:"types"`
	Lex   []rawLexRule  `yaml:"lex"`
	Skip  []string      `yaml:"skip"`
	Rules []yamlSynRule `yaml:"rules"`
}

type yamlSynRule struct {
	Ty   interface{} `yaml:"ty"`
	Body interface{} `yaml:"body"`
}

// LoadLanguageSpec parses YAML source into a LanguageSpec. NodeType indices
// follow Types' declaration order (0=ERROR, 1=WHITESPACE are implicit and
// should not be redeclared by Types); lex rules are kept as raw
// {Type, Pattern} strings until LexRules resolves and compiles them; rule bodies are decoded through the same tagged shape
// UnmarshalExpr understands, re-marshaled from YAML's generic
// map[string]interface{} decoding since yaml.v3 has no native concept of a
// Go Unmarshaler keyed by JSON tags.
func LoadLanguageSpec(src []byte) (*LanguageSpec, error) {
	var y yamlLanguage
	if err := yaml.Unmarshal(src, &y); err != nil {
		return nil, fmt.Errorf("fall: parsing language spec: %w", err)
	}

	types := make([]NodeTypeInfo, len(y.Types)+2)
	types[ERROR] = NodeTypeInfo{Name: "ERROR"}
	types[WHITESPACE] = NodeTypeInfo{Name: "WHITESPACE"}
	for i, name := range y.Types {
		types[i+2] = NodeTypeInfo{Name: name}
	}

	rules := make(RuleTable, len(y.Rules))
	for i, yr := range y.Rules {
		body, err := decodeYAMLExpr(yr.Body)
		if err != nil {
			return nil, fmt.Errorf("fall: rule %d: %w", i, err)
		}
		var ty *int
		if yr.Ty != nil {
			n, err := cast.ToIntE(yr.Ty)
			if err != nil {
				return nil, fmt.Errorf("fall: rule %d: ty: %w", i, err)
			}
			ty = &n
		}
		rules[i] = SynRule{Ty: ty, Body: body}
	}

	return &LanguageSpec{Types: types, Lex: y.Lex, Skip: y.Skip, Rules: rules}, nil
}

// typeByName resolves a declared type name (including the implicit ERROR,
// WHITESPACE) to its NodeType index.
func (s *LanguageSpec) typeByName(name string) (NodeType, bool) {
	for i, info := range s.Types {
		if info.Name == name {
			return NodeType(i), true
		}
	}
	return 0, false
}

// LexRules resolves every declared lex rule's Type name against Types and
// compiles its Pattern, producing a table Tokenize (or Parse) can drive
// directly. Patterns come from a data file rather than a Go literal, so
// unlike NewLexRule, a bad pattern is reported as an error instead of a
// panic. Custom matchers have no YAML representation, so every returned
// LexRule is pattern-only.
func (s *LanguageSpec) LexRules() ([]LexRule, error) {
	rules := make([]LexRule, len(s.Lex))
	for i, raw := range s.Lex {
		ty, ok := s.typeByName(raw.Type)
		if !ok {
			return nil, fmt.Errorf("fall: lex rule %d: unknown type %q", i, raw.Type)
		}
		re, err := regexp2.Compile(raw.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("fall: lex rule %d: invalid pattern %q: %w", i, raw.Pattern, err)
		}
		re.MatchTimeout = 0
		rules[i] = LexRule{Type: ty, Pattern: re}
	}
	return rules, nil
}

// SkipSet resolves the language's declared skip-set type names (trivia the tree
// builder should discard automatically between tokens) into a set ready for
// TreeBuilder.Skip. WHITESPACE is always included, matching
// NewTreeBuilder's own default skip set.
func (s *LanguageSpec) SkipSet() (map[NodeType]bool, error) {
	set := map[NodeType]bool{WHITESPACE: true}
	for _, name := range s.Skip {
		ty, ok := s.typeByName(name)
		if !ok {
			return nil, fmt.Errorf("fall: skip: unknown type %q", name)
		}
		set[ty] = true
	}
	return set, nil
}

// decodeYAMLExpr turns YAML's generic decode of a tagged expression (a
// map with exactly one key, or the bare string "Eof") into an Expr, reusing
// UnmarshalExpr by round-tripping through a minimal re-encoding rather than
// duplicating its dispatch table.
func decodeYAMLExpr(v interface{}) (Expr, error) {
	data, err := reencodeAsJSON(v)
	if err != nil {
		return nil, err
	}
	return UnmarshalExpr(data)
}

func reencodeAsJSON(v interface{}) ([]byte, error) {
	norm, err := normalizeYAML(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(norm)
}

// normalizeYAML converts yaml.v3's decoded map[string]interface{} (whose
// nested maps decode as map[string]interface{} already in v3, unlike v2's
// map[interface{}]interface{}) into values encoding/json can marshal,
// coercing YAML's looser numeric typing (int, float64, string-digits) to
// plain ints via spf13/cast where an int is expected structurally.
func normalizeYAML(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case string, bool, nil:
		return x, nil
	default:
		if i, err := cast.ToIntE(x); err == nil {
			return i, nil
		}
		return x, nil
	}
}

