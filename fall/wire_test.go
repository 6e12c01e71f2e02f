package fall

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roundTrip(t *testing.T, e Expr) Expr {
	t.Helper()
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalExpr(data)
	if err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return got
}

func TestExprWireRoundTrip(t *testing.T) {
	cases := []Expr{
		ExprToken{Type: 3},
		ExprRule{Index: 2},
		ExprOr{Alts: []Expr{ExprToken{Type: 1}, ExprToken{Type: 2}}},
		ExprAnd{Parts: []Expr{ExprToken{Type: 1}, ExprToken{Type: 2}}, Commit: nil},
		ExprAnd{Parts: []Expr{ExprToken{Type: 1}}, Commit: intp(1)},
		ExprOpt{Body: ExprToken{Type: 5}},
		ExprRep{Body: ExprToken{Type: 5}},
		ExprNot{Types: []int{1, 2}},
		ExprAhead{Types: []int{3}},
		ExprEof{},
		ExprLayer{Outer: ExprToken{Type: 1}, Inner: ExprRule{Index: 0}},
		ExprSkipUntil{Types: []int{4, 5}},
	}

	for _, want := range cases {
		got := roundTrip(t, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestUnmarshalExprRejectsUnknownTag(t *testing.T) {
	if _, err := UnmarshalExpr([]byte(`{"Bogus":1}`)); err == nil {
		t.Fatal("expected an error for an unrecognized tag")
	}
}

func TestUnmarshalExprRejectsUnknownBareString(t *testing.T) {
	if _, err := UnmarshalExpr([]byte(`"NotEof"`)); err == nil {
		t.Fatal("expected an error for an unrecognized bare string tag")
	}
}

func TestSynRuleWireRoundTrip(t *testing.T) {
	want := SynRule{Ty: intp(7), Body: ExprToken{Type: 2}}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got SynRule
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSynRuleWireRoundTripAnonymousRule(t *testing.T) {
	want := SynRule{Ty: nil, Body: ExprOr{Alts: []Expr{ExprToken{Type: 1}}}}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got SynRule
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExprSchemaIsNonEmpty(t *testing.T) {
	schema := ExprSchema()
	if schema == nil {
		t.Fatal("ExprSchema returned nil")
	}
}
