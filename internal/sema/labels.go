package sema

// labels numbers the branch targets. Conditionals (if and the ternary
// operator) draw from one counter, loops from the other; the numbers
// feed the .elseN/.afterCondN and .beforeLoopN/.continueLoopN/.afterLoopN
// families in the output.
type labels struct {
	cond   int
	loop   int
	active []int
}

func (l *labels) nextCond() int {
	n := l.cond
	l.cond++
	return n
}

func (l *labels) nextLoop() int {
	n := l.loop
	l.loop++
	return n
}

// enterLoop makes n the target of break and continue until the
// matching exitLoop.
func (l *labels) enterLoop(n int) {
	l.active = append(l.active, n)
}

func (l *labels) exitLoop() {
	l.active = l.active[:len(l.active)-1]
}

// current returns the innermost active loop number.
func (l *labels) current() (int, bool) {
	if len(l.active) == 0 {
		return 0, false
	}
	return l.active[len(l.active)-1], true
}
