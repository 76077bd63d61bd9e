// Package expression evaluates user supplied filter expressions against
// beatmap sets, one set at a time.
package expression

import (
	"fmt"
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

type CompiledExpression struct {
	Text    string
	Program *vm.Program
}

// Env is the variable set a filter expression can reference, for
// example `Charts > 3 && Artist contains "xi"`.
type Env struct {
	SetID        int
	Folder       string
	Path         string
	Title        string
	Artist       string
	Creator      string
	Charts       int
	Difficulties []string
}

// Compile turns expression texts into runnable programs. Every
// expression must evaluate to a boolean.
func Compile(texts []string) ([]CompiledExpression, error) {
	compiled := make([]CompiledExpression, 0, len(texts))

	for _, text := range texts {
		program, err := expr.Compile(text, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", text, err)
		}

		compiled = append(compiled, CompiledExpression{Text: text, Program: program})
	}

	return compiled, nil
}

func envFor(set *beatmap.Set) *Env {
	return &Env{
		SetID:        set.SetID,
		Folder:       filepath.Base(set.Path),
		Path:         set.Path,
		Title:        set.Title(),
		Artist:       set.Artist(),
		Creator:      set.Creator(),
		Charts:       set.ChartCount(),
		Difficulties: set.Difficulties(),
	}
}
