package recurrence

import "math"

// diagHist returns the histogram of diagonal line lengths, excluding
// the main diagonal (the line of identity carries no information for a
// self-recurrence plot).
func (p *Plot) diagHist() []int {
	hist := make([]int, p.n+1)
	for d := 1 - p.n; d < p.n; d++ {
		if d == 0 {
			continue
		}
		i, j := 0, d
		if d < 0 {
			i, j = -d, 0
		}
		run := 0
		for i < p.n && j < p.n {
			if p.cells[i*p.n+j] != 0 {
				run++
			} else if run > 0 {
				hist[run]++
				run = 0
			}
			i++
			j++
		}
		if run > 0 {
			hist[run]++
		}
	}
	return hist
}

// vertHist returns the histogram of vertical line lengths.
func (p *Plot) vertHist() []int {
	hist := make([]int, p.n+1)
	for j := 0; j < p.n; j++ {
		run := 0
		for i := 0; i < p.n; i++ {
			if p.cells[i*p.n+j] != 0 {
				run++
			} else if run > 0 {
				hist[run]++
				run = 0
			}
		}
		if run > 0 {
			hist[run]++
		}
	}
	return hist
}

func histSums(hist []int, minLine int) (above, total float64) {
	for l, cnt := range hist {
		if cnt == 0 {
			continue
		}
		w := float64(l * cnt)
		total += w
		if l >= minLine {
			above += w
		}
	}
	return above, total
}

// RR is the recurrence rate, the density of recurrent points.
func (p *Plot) RR() float64 {
	count := 0
	for _, c := range p.cells {
		if c != 0 {
			count++
		}
	}
	return float64(count) / float64(p.n*p.n)
}

// DET is the fraction of recurrent points forming diagonal lines of at
// least minLine points. High determinism marks repeating structure.
func (p *Plot) DET(minLine int) float64 {
	above, total := histSums(p.diagHist(), minLine)
	if total == 0 {
		return 0
	}
	return above / total
}

// L is the mean diagonal line length over lines of at least minLine
// points.
func (p *Plot) L(minLine int) float64 {
	var sum, count float64
	for l, cnt := range p.diagHist() {
		if l >= minLine && cnt > 0 {
			sum += float64(l * cnt)
			count += float64(cnt)
		}
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// LMax is the longest diagonal line, excluding the line of identity.
func (p *Plot) LMax() int {
	hist := p.diagHist()
	for l := len(hist) - 1; l >= 1; l-- {
		if hist[l] > 0 {
			return l
		}
	}
	return 0
}

// Div is the divergence, the reciprocal of LMax. Returns +Inf when the
// plot has no off-diagonal lines.
func (p *Plot) Div() float64 {
	lmax := p.LMax()
	if lmax == 0 {
		return math.Inf(1)
	}
	return 1 / float64(lmax)
}

// Entropy is the Shannon entropy of the diagonal line length
// distribution over lines of at least minLine points, in nats.
func (p *Plot) Entropy(minLine int) float64 {
	hist := p.diagHist()
	count := 0.0
	for l, cnt := range hist {
		if l >= minLine {
			count += float64(cnt)
		}
	}
	if count == 0 {
		return 0
	}
	h := 0.0
	for l, cnt := range hist {
		if l >= minLine && cnt > 0 {
			q := float64(cnt) / count
			h -= q * math.Log(q)
		}
	}
	return h
}

// LAM is the laminarity, the fraction of recurrent points forming
// vertical lines of at least minLine points. High laminarity marks
// intermittent states that persist in time.
func (p *Plot) LAM(minLine int) float64 {
	above, total := histSums(p.vertHist(), minLine)
	if total == 0 {
		return 0
	}
	return above / total
}

// TT is the trapping time, the mean vertical line length over lines of
// at least minLine points.
func (p *Plot) TT(minLine int) float64 {
	var sum, count float64
	for l, cnt := range p.vertHist() {
		if l >= minLine && cnt > 0 {
			sum += float64(l * cnt)
			count += float64(cnt)
		}
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// VMax is the longest vertical line.
func (p *Plot) VMax() int {
	hist := p.vertHist()
	for l := len(hist) - 1; l >= 1; l-- {
		if hist[l] > 0 {
			return l
		}
	}
	return 0
}
