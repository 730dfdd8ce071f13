package grammex

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStringTerminal(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{"start": "hello"}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	if _, err := g.Parse("hello"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := g.Parse("hellx"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseFailsOnPartialMatch(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{"start": "hello"}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	_, err = g.Parse("hello world")
	if err == nil {
		t.Fatal("expected a parse error when input is not fully consumed")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParsePatternCaptures(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"start": PatternTerminal(`(?P<head>[a-z]+)-(?P<tail>[0-9]+)`),
	}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}

	children, err := g.Parse("abc-123")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("want 1 top-level node, got %d", len(children))
	}
	start := children[0]
	head, ok := start.Child("head")
	if !ok || head.SourceText != "abc" {
		t.Fatalf("head capture: got %+v, ok=%v", head, ok)
	}
	tail, ok := start.Child("tail")
	if !ok || tail.SourceText != "123" {
		t.Fatalf("tail capture: got %+v, ok=%v", tail, ok)
	}
}

func TestParseSequenceSkipsOptionalMember(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"start": Sequence(Possibly(StringTerminal("x")), "y"),
	}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	if _, err := g.Parse("y"); err != nil {
		t.Fatalf("Parse(y): %v", err)
	}
	if _, err := g.Parse("xy"); err != nil {
		t.Fatalf("Parse(xy): %v", err)
	}
}

func TestParseRepetitionGreedy(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"start": Sequence(OneOrMore(StringTerminal("a")), "b"),
	}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	if _, err := g.Parse("aaab"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := g.Parse("b"); err == nil {
		t.Fatal("OneOrMore must require at least one match")
	}
}

func TestParseZeroOrMoreMatchesEmpty(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"start": ZeroOrMore(StringTerminal("a")),
	}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	if _, err := g.Parse(""); err != nil {
		t.Fatalf("Parse(\"\"): %v", err)
	}
}

// TestAnyOfVsBestOfAmbiguityResolution exercises scenario 1: the same
// grammar shape, parsed once with anyOf's first-match rule and once
// with bestOf's longest-match rule, produces different outcomes for
// the same input.
func TestAnyOfVsBestOfAmbiguityResolution(t *testing.T) {
	build := func(exhaustive bool) (*Grammar, error) {
		var choice Production
		if exhaustive {
			choice = BestOf(Ref("p2"), Ref("p3"))
		} else {
			choice = AnyOf(Ref("p2"), Ref("p3"))
		}
		return BuildGrammar(map[string]Production{
			"p1": Sequence("a", "b", "c", choice),
			"p2": Sequence("x", Ref("p4"), "z"),
			"p3": Sequence("x", Ref("p4"), "z", "u"),
			"p4": "y",
		}, "p1")
	}

	anyOfGrammar, err := build(false)
	if err != nil {
		t.Fatalf("build(anyOf): %v", err)
	}
	_, err = anyOfGrammar.Parse("abcxyzu")
	if err == nil {
		t.Fatal("anyOf: p2 must win and leave 'u' unconsumed, failing the parse")
	}
	const want = "Failed parsing the input text. Parsed length was 6. Input length was 7."
	if err.Error() != want {
		t.Fatalf("anyOf error: got %q, want %q", err.Error(), want)
	}

	bestOfGrammar, err := build(true)
	if err != nil {
		t.Fatalf("build(bestOf): %v", err)
	}
	if _, err := bestOfGrammar.Parse("abcxyzu"); err != nil {
		t.Fatalf("bestOf: expected p3's longer match to win: %v", err)
	}
}

func TestParseErrorReportsFarthestFailure(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"start": AnyOf(Sequence("a", "b", "c"), Sequence("a", "x")),
	}, "start")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}

	_, err = g.Parse("az")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Offset != 1 {
		t.Fatalf("want farthest failure at offset 1, got %d (terminals=%v)", perr.Offset, perr.Terminals)
	}
}

func TestGrammarParseIsConcurrencySafe(t *testing.T) {
	g, err := BuildGrammar(map[string]Production{
		"value": Cached(AnyOf(
			Sequence("(", ZeroOrMore(Ref("value")), ")"),
			"x")),
	}, "value")
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}

	input := "((x)(xx)((x)))"
	want, err := g.Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := g.Parse(input)
			if err != nil {
				t.Errorf("concurrent Parse: %v", err)
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("concurrent Parse produced a different tree (-want +got):\n%s", diff)
			}
		}()
	}
	wg.Wait()
}
