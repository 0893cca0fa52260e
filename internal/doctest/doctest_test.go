package doctest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mica/internal/diag"
	"mica/internal/driver"
	"mica/internal/rv32"
	"mica/internal/source"
)

const sampleDoc = "# Guide\n\n" +
	"## Returning\n\n" +
	"```mica\nint main() { return 1; }\n```\n\n" +
	"```result\n1\n```\n\n" +
	"## Going wrong\n\n" +
	"```text\nprose fence, ignored\n```\n\n" +
	"```mica\nint main() { return 2; }\n```\n\n" +
	"```result\n2\n```\n\n" +
	"```mica\nint main() { return oops; }\n```\n\n" +
	"```result\nerror[UndefinedSymbol]\n```\n"

func TestExtractPairsProgramsWithResults(t *testing.T) {
	examples, err := Extract([]byte(sampleDoc))
	be.Err(t, err, nil)
	be.Equal(t, len(examples), 3)

	be.Equal(t, examples[0].Name, "Returning")
	be.True(t, strings.Contains(examples[0].Program, "return 1;"))
	be.Equal(t, examples[0].Want, "1")

	// Two examples in one section get numbered names.
	be.Equal(t, examples[1].Name, "Going wrong")
	be.Equal(t, examples[2].Name, "Going wrong #2")
	be.Equal(t, examples[2].Want, "error[UndefinedSymbol]")

	be.True(t, examples[0].Line > 0)
	be.True(t, examples[1].Line > examples[0].Line)
}

func TestExtractRejectsDanglingProgram(t *testing.T) {
	doc := "## A\n\n```mica\nint main() { return 0; }\n```\n\n```mica\nint main() { return 1; }\n```\n"
	_, err := Extract([]byte(doc))
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "no result fence"))

	trailing := "## A\n\n```mica\nint main() { return 0; }\n```\n"
	_, err = Extract([]byte(trailing))
	be.Err(t, err)
}

func TestExtractRejectsOrphanResult(t *testing.T) {
	_, err := Extract([]byte("## A\n\n```result\n1\n```\n"))
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "without a program"))
}

func TestParseWant(t *testing.T) {
	out, err := ParseWant("42")
	be.Err(t, err, nil)
	be.Equal(t, out, Outcome{Value: 42})

	out, err = ParseWant("-7")
	be.Err(t, err, nil)
	be.Equal(t, out, Outcome{Value: -7})

	out, err = ParseWant("error[TypeMismatch]")
	be.Err(t, err, nil)
	be.Equal(t, out, Outcome{ErrCode: "TypeMismatch"})

	_, err = ParseWant("whatever")
	be.Err(t, err)
}

// TestTourExamples compiles and runs every example in the language
// tour, keeping the documentation and the compiler in lockstep.
func TestTourExamples(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "docs", "TOUR.md"))
	be.Err(t, err, nil)

	examples, err := Extract(data)
	be.Err(t, err, nil)
	be.True(t, len(examples) >= 20)

	for _, ex := range examples {
		t.Run(ex.Name, func(t *testing.T) {
			want, err := ParseWant(ex.Want)
			be.Err(t, err, nil)

			art, err := driver.Compile(source.NewVirtualFile("tour.mc", []byte(ex.Program)))
			if want.ErrCode != "" {
				e, ok := diag.As(err)
				be.True(t, ok)
				be.Equal(t, e.Code.String(), want.ErrCode)
				return
			}
			be.Err(t, err, nil)

			got, err := rv32.Execute(art.Assembly, "main")
			be.Err(t, err, nil)
			be.Equal(t, got, want.Value)
		})
	}
}
