package fall

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// MarshalJSON renders e as the tagged-union shape grammar generators emit,
// e.g. {"Or":[...]}, {"And":[[...],null]}, {"Token":1}. Compatibility with
// this exact shape matters at the boundary with a grammar generator; inside
// this package only LoadLanguageSpec goes through it, decoding YAML rule
// bodies by re-encoding them as JSON for UnmarshalExpr.
func (e ExprToken) MarshalJSON() ([]byte, error) { return tagged("Token", e.Type) }
func (e ExprRule) MarshalJSON() ([]byte, error)  { return tagged("Rule", e.Index) }
func (e ExprOr) MarshalJSON() ([]byte, error)    { return tagged("Or", e.Alts) }

func (e ExprAnd) MarshalJSON() ([]byte, error) {
	return tagged("And", []interface{}{e.Parts, e.Commit})
}

func (e ExprOpt) MarshalJSON() ([]byte, error)       { return tagged("Opt", e.Body) }
func (e ExprRep) MarshalJSON() ([]byte, error)       { return tagged("Rep", e.Body) }
func (e ExprNot) MarshalJSON() ([]byte, error)       { return tagged("Not", e.Types) }
func (e ExprAhead) MarshalJSON() ([]byte, error)     { return tagged("Ahead", e.Types) }
func (e ExprEof) MarshalJSON() ([]byte, error)       { return []byte(`"Eof"`), nil }
func (e ExprSkipUntil) MarshalJSON() ([]byte, error) { return tagged("SkipUntil", e.Types) }

func (e ExprLayer) MarshalJSON() ([]byte, error) {
	return tagged("Layer", []Expr{e.Outer, e.Inner})
}

func tagged(tag string, payload interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{tag: payload})
}

// exprEnvelope holds every possible tagged field; at most one is set per
// wire message, mirroring how a tagged-union decodes in Go without a real
// sum type at the json package level.
type exprEnvelope struct {
	Token     *int               `json:"Token"`
	Rule      *int               `json:"Rule"`
	Or        []json.RawMessage  `json:"Or"`
	And       []json.RawMessage  `json:"And"`
	Opt       json.RawMessage    `json:"Opt"`
	Rep       json.RawMessage    `json:"Rep"`
	Not       []int              `json:"Not"`
	Ahead     []int              `json:"Ahead"`
	Eof       *string            `json:"-"`
	Layer     []json.RawMessage  `json:"Layer"`
	SkipUntil []int              `json:"SkipUntil"`
}

// UnmarshalExpr decodes one Grammar IR node from its tagged-union wire
// shape. It is the inverse of Expr's MarshalJSON methods.
func UnmarshalExpr(data []byte) (Expr, error) {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		if bare == "Eof" {
			return ExprEof{}, nil
		}
		return nil, fmt.Errorf("fall: unknown bare grammar tag %q", bare)
	}

	var env exprEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("fall: decoding grammar expression: %w", err)
	}

	switch {
	case env.Token != nil:
		return ExprToken{Type: *env.Token}, nil
	case env.Rule != nil:
		return ExprRule{Index: *env.Rule}, nil
	case env.Or != nil:
		alts, err := unmarshalExprs(env.Or)
		if err != nil {
			return nil, err
		}
		return ExprOr{Alts: alts}, nil
	case env.And != nil:
		if len(env.And) != 2 {
			return nil, fmt.Errorf("fall: And must encode [parts, commit], got %d elements", len(env.And))
		}
		var parts []json.RawMessage
		if err := json.Unmarshal(env.And[0], &parts); err != nil {
			return nil, fmt.Errorf("fall: decoding And parts: %w", err)
		}
		exprs, err := unmarshalExprs(parts)
		if err != nil {
			return nil, err
		}
		var commit *int
		if err := json.Unmarshal(env.And[1], &commit); err != nil {
			return nil, fmt.Errorf("fall: decoding And commit: %w", err)
		}
		return ExprAnd{Parts: exprs, Commit: commit}, nil
	case env.Opt != nil:
		body, err := UnmarshalExpr(env.Opt)
		if err != nil {
			return nil, err
		}
		return ExprOpt{Body: body}, nil
	case env.Rep != nil:
		body, err := UnmarshalExpr(env.Rep)
		if err != nil {
			return nil, err
		}
		return ExprRep{Body: body}, nil
	case env.Not != nil:
		return ExprNot{Types: env.Not}, nil
	case env.Ahead != nil:
		return ExprAhead{Types: env.Ahead}, nil
	case env.Layer != nil:
		if len(env.Layer) != 2 {
			return nil, fmt.Errorf("fall: Layer must encode [outer, inner], got %d elements", len(env.Layer))
		}
		outer, err := UnmarshalExpr(env.Layer[0])
		if err != nil {
			return nil, err
		}
		inner, err := UnmarshalExpr(env.Layer[1])
		if err != nil {
			return nil, err
		}
		return ExprLayer{Outer: outer, Inner: inner}, nil
	case env.SkipUntil != nil:
		return ExprSkipUntil{Types: env.SkipUntil}, nil
	default:
		return nil, fmt.Errorf("fall: grammar expression has no recognized tag: %s", string(data))
	}
}

func unmarshalExprs(raw []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, len(raw))
	for i, r := range raw {
		e, err := UnmarshalExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// wireSynRule mirrors SynRule's wire shape: {"ty": int|null, "body": Expr}.
type wireSynRule struct {
	Ty   *int            `json:"ty"`
	Body json.RawMessage `json:"body"`
}

// MarshalJSON renders the rule's declared type and body.
func (r SynRule) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(r.Body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireSynRule{Ty: r.Ty, Body: body})
}

// UnmarshalJSON decodes a rule's declared type and body.
func (r *SynRule) UnmarshalJSON(data []byte) error {
	var w wireSynRule
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	body, err := UnmarshalExpr(w.Body)
	if err != nil {
		return err
	}
	r.Ty = w.Ty
	r.Body = body
	return nil
}

// ExprSchema returns a JSON Schema describing the Grammar IR's wire
// encoding, generated from the concrete Go types rather than hand-kept in
// sync with MarshalJSON, for use by grammar generators validating their
// output against the engine's expectations.
func ExprSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	return r.Reflect(&wireGrammar{})
}

// wireGrammar is the schema-reflection target: the full shape a generator
// must produce, rule table plus node-type names.
type wireGrammar struct {
	NodeTypes []string  `json:"nodeTypes"`
	Rules     []SynRule `json:"rules"`
}
