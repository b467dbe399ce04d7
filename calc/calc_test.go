package calc

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expression string
		expected   float64
	}{
		{"1", 1},
		{"-1", -1},
		{"007", 7},
		{"1.5", 1.5},
		{"-0.25", -0.25},
		{"1e3", 1000},
		{"1E3", 1000},
		{"1.5e+2", 150},
		{"25e-2", 0.25},
		{"1 + 2", 3},
		{"1+2*3", 7},
		{"(1 + 2) * 3", 9},
		{"( 1 + 2 )*3", 9},
		{"10 / 4", 2.5},
		{"8 / 2 / 2", 2},
		{"1 - 2 - 3", -4},
		{"2 * 3 / 4 * 2", 3},
		{"1 - -1", 2},
		{"1 -1", 0},
		{"2*-3", -6},
		{"((2))", 2},
		{"  4 * 5  ", 20},
		{"1.5e3/3", 500},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			actual, err := Evaluate(tt.expression)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if actual != tt.expected {
				t.Errorf("expected: %v\nactual:%v", tt.expected, actual)
			}
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	t.Run("positive", func(t *testing.T) {
		actual, err := Evaluate("1 / 0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsInf(actual, 1) {
			t.Errorf("expected: +Inf\nactual:%v", actual)
		}
	})

	t.Run("negative", func(t *testing.T) {
		actual, err := Evaluate("-1 / 0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsInf(actual, -1) {
			t.Errorf("expected: -Inf\nactual:%v", actual)
		}
	})

	t.Run("zero", func(t *testing.T) {
		actual, err := Evaluate("0 / 0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsNaN(actual) {
			t.Errorf("expected: NaN\nactual:%v", actual)
		}
	})
}

func TestEvaluateOutOfRange(t *testing.T) {
	actual, err := Evaluate("1e999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(actual, 1) {
		t.Errorf("expected: +Inf\nactual:%v", actual)
	}
}

func TestEvaluateMalformed(t *testing.T) {
	tests := []struct {
		expression string
		offset     int
	}{
		{"", 0},
		{"   ", 3},
		{"1 +", 3},
		{"(1 + 2", 6},
		{"1 + 2)", 5},
		{"1 2", 2},
		{"1.", 1},
		{"1e", 1},
		{"abc", 0},
		{"-(1)", 0},
		{"2 ** 3", 3},
		{"1 + x", 4},
		{"bogus crap", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			_, err := Evaluate(tt.expression)
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Cause(err) != ErrParse {
				t.Errorf("expected cause: %v\nactual:%v", ErrParse, errors.Cause(err))
			}

			perr, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Offset != tt.offset {
				t.Errorf("expected offset: %d\nactual:%d", tt.offset, perr.Offset)
			}
		})
	}
}

func TestEvaluateRepeatable(t *testing.T) {
	valid := []string{"1+2*3", "(1 + 2) * 3", "8 / 2 / 2", "1.5e3/3", "2*-3"}
	malformed := []string{"bogus crap", "1 +", "(1 + 2", "1 2"}

	results := map[string]float64{}
	offsets := map[string]int{}
	for round := 0; round < 3; round++ {
		for i, expression := range valid {
			actual, err := Evaluate(expression)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expected, ok := results[expression]; ok && actual != expected {
				t.Errorf("%q: expected: %v\nactual:%v", expression, expected, actual)
			}
			results[expression] = actual

			bad := malformed[i%len(malformed)]
			_, err = Evaluate(bad)
			perr, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("%q: expected *ParseError, got %T", bad, err)
			}
			if expected, ok := offsets[bad]; ok && perr.Offset != expected {
				t.Errorf("%q: expected offset: %d\nactual:%d", bad, expected, perr.Offset)
			}
			offsets[bad] = perr.Offset
		}
	}
}
