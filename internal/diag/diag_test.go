package diag

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nalgeon/be"

	"mica/internal/source"
)

func TestErrorFormat(t *testing.T) {
	f := source.NewVirtualFile("main.mc", []byte("int main() {\n    5 = x;\n}\n"))
	e := Errorf(f, source.NewSpan(17, 18), LvalueRequired, "assignment target is not an lvalue")

	be.Equal(t, e.Error(), "main.mc:2:5: error[LvalueRequired]: assignment target is not an lvalue")
	be.Equal(t, e.Position(), source.LineCol{Line: 2, Col: 5})
}

func TestErrorWithoutFile(t *testing.T) {
	e := Errorf(nil, source.Span{}, MissingEntryPoint, "no definition of main")
	be.Equal(t, e.Error(), "<input>:1:1: error[MissingEntryPoint]: no definition of main")
}

func TestCodeNames(t *testing.T) {
	be.Equal(t, LvalueRequired.String(), "LvalueRequired")
	be.Equal(t, LexUnknownChar.String(), "LexUnknownChar")
	be.Equal(t, Code(999).String(), "UnknownCode")

	be.Equal(t, LvalueRequired.ID(), "SEM3013")
	be.Equal(t, SynUnexpectedToken.ID(), "SYN2001")
	be.Equal(t, LexUnknownChar.ID(), "LEX1001")
}

func TestRender(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	f := source.NewVirtualFile("t.mc", []byte("int g;\nint g = 1;\nint g = 2;\n"))
	e := Errorf(f, source.NewSpan(22, 27), DuplicateInitialization, "global 'g' is initialized twice")

	var sb strings.Builder
	Render(&sb, e)
	out := sb.String()

	be.True(t, strings.Contains(out, "t.mc:3:5: error[DuplicateInitialization]: global 'g' is initialized twice"))
	be.True(t, strings.Contains(out, "    3 | int g = 2;"))
	be.True(t, strings.Contains(out, "^~~~~"))
}
