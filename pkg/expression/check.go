package expression

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

func CheckSetSingleMatch(set *beatmap.Set, expressions []CompiledExpression) (bool, error) {
	match, _, err := CheckSetSingleMatchWithReason(set, expressions)
	return match, err
}

func CheckSetAllMatch(set *beatmap.Set, expressions []CompiledExpression) (bool, error) {
	match, _, err := CheckSetAllMatchWithReason(set, expressions)
	return match, err
}

func CheckSetSingleMatchWithReason(set *beatmap.Set, expressions []CompiledExpression) (bool, string, error) {
	env := envFor(set)

	for _, expression := range expressions {
		result, err := expr.Run(expression.Program, env)
		if err != nil {
			return false, "", fmt.Errorf("check expression: %w", err)
		}

		expResult, ok := result.(bool)
		if !ok {
			return false, "", fmt.Errorf("expression %q returned %T, not bool", expression.Text, result)
		}

		if expResult {
			return true, expression.Text, nil
		}
	}

	return false, "", nil
}

func CheckSetAllMatchWithReason(set *beatmap.Set, expressions []CompiledExpression) (bool, []string, error) {
	env := envFor(set)
	var failedExpressions []string

	for _, expression := range expressions {
		result, err := expr.Run(expression.Program, env)
		if err != nil {
			return false, nil, fmt.Errorf("check expression: %w", err)
		}

		expResult, ok := result.(bool)
		if !ok {
			return false, nil, fmt.Errorf("expression %q returned %T, not bool", expression.Text, result)
		}

		if !expResult {
			failedExpressions = append(failedExpressions, expression.Text)
		}
	}

	if len(failedExpressions) > 0 {
		return false, failedExpressions, nil
	}

	return true, nil, nil
}
