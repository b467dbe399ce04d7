package handlers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/gobridge/akumabot/bot"
	"github.com/gobridge/akumabot/calc"
	"github.com/pkg/errors"
)

// Calc evaluates an arithmetic expression.
func Calc() *bot.Command {
	cmd := &bot.Command{
		Name:  "calc",
		Usage: "%s <expression>   Evaluate math expression",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		if len(inv.Args) == 0 {
			return usage(cmd)
		}

		expression := strings.Join(inv.Args, " ")
		result, err := calc.Evaluate(expression)
		if errors.Cause(err) == calc.ErrParse {
			return bot.Replyf("I didn't understand %s", expression)
		}
		if err != nil {
			return bot.Fail(err)
		}
		return bot.Reply("Result: " + FormatResult(result))
	}
	return cmd
}

// FormatResult formats v with six significant digits, switching to
// exponent notation for very large or small values.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NAN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	return fmt.Sprintf("%.6G", v)
}
