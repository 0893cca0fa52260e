package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

// addCorpusSeeds mixes well-formed programs with the kinds of breakage
// the mutator should start from.
func addCorpusSeeds(f *testing.F) {
	for _, seed := range []string{
		"int main() { return 0; }",
		"int g = 42; int main() { return g; }",
		"int f(int x, int *p) { return x + *p; }",
		"int main() { int a[2][3]; a[1][2] = 5; return a[1][2]; }",
		"int main() { for (int i = 0; i < 10; i = i + 1) if (i % 2) continue; return 1 ? 2 : 3; }",
		"int main() { while (1) break; return !0 + ~5; }",
		"int nine(int a, int b, int c, int d, int e, int f, int g, int h, int i) { return i; }",
		"int main() { return 2147483647; }",
		// Broken on purpose.
		"int main() { return 1 +; }",
		"int main() { return (x; }",
		"int main() { int x = &; }",
		"int 0bad() {}",
		"/* unterminated",
		"int main() { return 0; } @",
	} {
		f.Add([]byte(seed))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
