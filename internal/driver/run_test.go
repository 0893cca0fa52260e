package driver

import (
	"math"
	"testing"

	"github.com/nalgeon/be"
)

// These tests push complete programs through compile, assemble and
// execute, and check the value main leaves in a0.

func TestRunFactorial(t *testing.T) {
	got := exec(t, `
int fact(int n) {
    if (n < 2) return 1;
    return n * fact(n - 1);
}
int main() { return fact(5); }
`)
	be.Equal(t, got, int32(120))
}

func TestRunNineArgumentCall(t *testing.T) {
	got := exec(t, `
int pick(int x1, int x2, int x3, int x4, int x5, int x6, int x7, int x8, int x9) {
    return x9 - x1;
}
int main() { return pick(1, 2, 3, 4, 5, 6, 7, 8, 43); }
`)
	be.Equal(t, got, int32(42))
}

func TestRunLogicalOperatorsEvaluateBothSides(t *testing.T) {
	got := exec(t, `
int g;
int bump() { g = g + 1; return 0; }
int main() {
    int r;
    r = bump() && bump();
    r = r + (bump() || bump());
    return g * 10 + r;
}
`)
	// All four bump calls run even though every condition is decided by
	// the first operand.
	be.Equal(t, got, int32(40))
}

func TestRunBreakLeavesInnerLoopOnly(t *testing.T) {
	got := exec(t, `
int main() {
    int i = 0;
    int n = 0;
    while (i < 3) {
        int j = 0;
        while (1) {
            if (j == 2) break;
            j = j + 1;
            n = n + j;
        }
        i = i + 1;
    }
    return n;
}
`)
	be.Equal(t, got, int32(9))
}

func TestRunContinueSkipsToStep(t *testing.T) {
	got := exec(t, `
int main() {
    int s = 0;
    for (int i = 0; i < 10; i = i + 1) {
        if (i % 2) continue;
        s = s + i;
    }
    return s;
}
`)
	be.Equal(t, got, int32(20))
}

func TestRunPointerSwap(t *testing.T) {
	got := exec(t, `
int swap(int *a, int *b) {
    int tmp = *a;
    *a = *b;
    *b = tmp;
    return 0;
}
int main() {
    int x = 3;
    int y = 39;
    swap(&x, &y);
    return x * 10 + y;
}
`)
	be.Equal(t, got, int32(393))
}

func TestRunArrayIndexing(t *testing.T) {
	got := exec(t, `
int main() {
    int a[3][4];
    int i = 0;
    while (i < 3) {
        int j = 0;
        while (j < 4) {
            a[i][j] = i * 4 + j;
            j = j + 1;
        }
        i = i + 1;
    }
    return a[2][3];
}
`)
	be.Equal(t, got, int32(11))
}

func TestRunGlobalsAndPointerArithmetic(t *testing.T) {
	got := exec(t, `
int g[10];
int base = 5;
int main() {
    int *p = &g[0];
    int i = 0;
    while (i < 10) {
        *(p + i) = i;
        i = i + 1;
    }
    return g[7] + base;
}
`)
	be.Equal(t, got, int32(12))
}

func TestRunLoopAndTernaryForms(t *testing.T) {
	got := exec(t, `
int main() {
    int n = 0;
    do { n = n + 1; } while (n < 5);
    int s = 0;
    for (int i = 0; i < n; i = i + 1) {
        s = s + (i % 2 == 0 ? i : 0);
    }
    return s;
}
`)
	be.Equal(t, got, int32(6))
}

func TestRunDivisionSemantics(t *testing.T) {
	be.Equal(t, exec(t, "int main() { return (0 - 7) / 2; }"), int32(-3))
	be.Equal(t, exec(t, "int main() { return (0 - 7) % 2; }"), int32(-1))
	be.Equal(t, exec(t, "int main() { return (0 - 2147483647 - 1) / (0 - 1); }"), int32(math.MinInt32))
}

func TestRunAssignmentChains(t *testing.T) {
	got := exec(t, `
int main() {
    int a;
    int b;
    int c;
    a = b = c = 14;
    return a + b + c;
}
`)
	be.Equal(t, got, int32(42))
}

func TestRunPointerDistance(t *testing.T) {
	got := exec(t, `
int main() {
    int a[8];
    int *p = &a[1];
    int *q = &a[6];
    return q - p;
}
`)
	be.Equal(t, got, int32(5))
}
