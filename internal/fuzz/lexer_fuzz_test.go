package fuzztests

import (
	"testing"

	"mica/internal/lexer"
	"mica/internal/source"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		file := source.NewVirtualFile("fuzz.mc", clamp(input))
		_, _ = lexer.Tokenize(file)
	})
}
