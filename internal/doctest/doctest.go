// Package doctest extracts runnable examples from markdown documents.
//
// A ```mica fence holds a complete program and the ```result fence
// that follows it states the outcome: the value main returns, or
// error[CodeName] when compilation must fail. Fences in any other
// language are prose and stay untouched.
package doctest

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Example is one program/result pair from a document.
type Example struct {
	Name    string // nearest heading, made unique per document
	Line    int    // line of the program fence
	Program string
	Want    string // raw result fence content
}

// Outcome is what a result fence promises.
type Outcome struct {
	Value   int32  // return value of main when ErrCode is empty
	ErrCode string // expected diagnostic code name
}

const (
	programFence = "mica"
	resultFence  = "result"
)

// Extract walks a markdown document and pairs every program fence with
// the result fence that follows it. A program without a result, or a
// result without a program, is an authoring error.
func Extract(source []byte) ([]Example, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		examples []Example
		section  string
		perName  = map[string]int{}
		pending  = -1 // index of the example still waiting for its result
	)

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			section = headingText(n, source)

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			line := lineOf(n, source)
			switch language {
			case programFence:
				if pending >= 0 {
					return ast.WalkStop, danglingProgram(examples[pending])
				}
				name := section
				if name == "" {
					name = "example"
				}
				perName[name]++
				if perName[name] > 1 {
					name = fmt.Sprintf("%s #%d", name, perName[name])
				}
				examples = append(examples, Example{
					Name:    name,
					Line:    line,
					Program: fenceContent(n, source),
				})
				pending = len(examples) - 1
			case resultFence:
				if pending < 0 {
					return ast.WalkStop, fmt.Errorf("line %d: result fence without a program", line)
				}
				examples[pending].Want = strings.TrimSpace(fenceContent(n, source))
				pending = -1
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if pending >= 0 {
		return nil, danglingProgram(examples[pending])
	}
	return examples, nil
}

func danglingProgram(ex Example) error {
	return fmt.Errorf("line %d: program in section %q has no result fence", ex.Line, ex.Name)
}

var errResult = regexp.MustCompile(`^error\[(\w+)\]$`)

// ParseWant interprets a result fence: a decimal integer, or
// error[CodeName].
func ParseWant(want string) (Outcome, error) {
	if m := errResult.FindStringSubmatch(want); m != nil {
		return Outcome{ErrCode: m[1]}, nil
	}
	v, err := strconv.ParseInt(want, 10, 32)
	if err != nil {
		return Outcome{}, fmt.Errorf("result %q is neither an integer nor error[Code]", want)
	}
	return Outcome{Value: int32(v)}, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
