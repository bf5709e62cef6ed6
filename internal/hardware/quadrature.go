package hardware

// quadSteps maps (previous state << 2 | current state) to a quarter-step,
// where a state is A<<1 | B. Invalid double transitions count as zero.
var quadSteps = [16]int8{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

// Quadrature decodes the two-phase output of an incremental encoder into a
// detent count. A typical mechanical encoder produces four quarter-steps
// per detent.
type Quadrature struct {
	divisor  int
	state    uint8
	sub      int
	position int
}

// NewQuadrature returns a decoder whose current phase is (a, b).
// divisor is the number of quarter-steps per counted detent.
func NewQuadrature(a, b bool, divisor int) *Quadrature {
	if divisor < 1 {
		divisor = 1
	}
	return &Quadrature{divisor: divisor, state: phase(a, b)}
}

// Update feeds one sample of the two phases.
func (q *Quadrature) Update(a, b bool) {
	next := phase(a, b)
	q.sub += int(quadSteps[q.state<<2|next])
	q.state = next
	switch {
	case q.sub >= q.divisor:
		q.position++
		q.sub = 0
	case q.sub <= -q.divisor:
		q.position--
		q.sub = 0
	}
}

// Position returns the cumulative detent count.
func (q *Quadrature) Position() int { return q.position }

func phase(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}
