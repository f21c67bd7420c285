package coros

import "math"

// latencyMarkers estimates a single quantile of a stream of task-body
// durations using the P^2 algorithm: five tracked markers give O(1)
// per-observation updates and O(1) quantile retrieval without retaining
// any of the durations themselves.
//
// Reference: Jain, R. and Chlamtac, I. (1985). "The P^2 Algorithm for
// Dynamic Calculation of Quantiles and Histograms Without Storing
// Observations". Communications of the ACM, 28(10), pp. 1076-1085.
//
// Thread Safety: NOT thread-safe; latencyDistribution serializes access
// with a mutex.
type latencyMarkers struct {
	target    float64    // the quantile this set of markers tracks, in [0,1]
	height    [5]float64 // marker heights q0..q4 (q2 is the quantile estimate)
	position  [5]int     // marker positions within the stream so far
	desired   [5]float64 // ideal (fractional) marker positions
	increment [5]float64 // per-observation increment to the desired positions
	seeded    bool
	seen      int
	seed      [5]float64 // first five raw observations, buffered until seeded
}

func newLatencyMarkers(target float64) *latencyMarkers {
	target = math.Min(1, math.Max(0, target))
	return &latencyMarkers{
		target:    target,
		increment: [5]float64{0, target / 2, target, (1 + target) / 2, 1},
	}
}

// locateCell returns the marker cell that x falls into, clamping the
// outer markers to extend the tracked range when x is a new extreme.
func (lm *latencyMarkers) locateCell(x float64) int {
	switch {
	case x < lm.height[0]:
		lm.height[0] = x
		return 0
	case x >= lm.height[4]:
		lm.height[4] = x
		return 3
	default:
		for k := 0; k < 4; k++ {
			if lm.height[k] <= x && x < lm.height[k+1] {
				return k
			}
		}
		return 3
	}
}

func (lm *latencyMarkers) Observe(x float64) {
	lm.seen++

	if lm.seen <= 5 {
		lm.seed[lm.seen-1] = x
		if lm.seen == 5 {
			lm.seedMarkers()
		}
		return
	}

	cell := lm.locateCell(x)
	for i := cell + 1; i < 5; i++ {
		lm.position[i]++
	}
	for i := 0; i < 5; i++ {
		lm.desired[i] += lm.increment[i]
	}

	for i := 1; i < 4; i++ {
		lm.adjustMarker(i)
	}
}

// adjustMarker nudges marker i toward its desired position when it has
// drifted by at least one observation, preferring the parabolic estimate
// and falling back to a linear one when the parabolic result would leave
// the markers out of order.
func (lm *latencyMarkers) adjustMarker(i int) {
	d := lm.desired[i] - float64(lm.position[i])
	grow := d >= 1 && lm.position[i+1]-lm.position[i] > 1
	shrink := d <= -1 && lm.position[i-1]-lm.position[i] < -1
	if !grow && !shrink {
		return
	}

	dir := 1
	if d < 0 {
		dir = -1
	}

	estimate := lm.estimateParabolic(i, dir)
	if lm.height[i-1] < estimate && estimate < lm.height[i+1] {
		lm.height[i] = estimate
	} else {
		lm.height[i] = lm.estimateLinear(i, dir)
	}
	lm.position[i] += dir
}

func (lm *latencyMarkers) seedMarkers() {
	for i := 1; i < 5; i++ {
		key := lm.seed[i]
		j := i - 1
		for j >= 0 && lm.seed[j] > key {
			lm.seed[j+1] = lm.seed[j]
			j--
		}
		lm.seed[j+1] = key
	}

	for i := 0; i < 5; i++ {
		lm.height[i] = lm.seed[i]
		lm.position[i] = i
	}

	lm.desired = [5]float64{0, 2 * lm.target, 4 * lm.target, 2 + 2*lm.target, 4}
	lm.seeded = true
}

func (lm *latencyMarkers) estimateParabolic(i, dir int) float64 {
	d := float64(dir)
	ni := float64(lm.position[i])
	prev := float64(lm.position[i-1])
	next := float64(lm.position[i+1])

	outer := d / (next - prev)
	upper := (ni - prev + d) * (lm.height[i+1] - lm.height[i]) / (next - ni)
	lower := (next - ni - d) * (lm.height[i] - lm.height[i-1]) / (ni - prev)

	return lm.height[i] + outer*(upper+lower)
}

func (lm *latencyMarkers) estimateLinear(i, dir int) float64 {
	if dir == 1 {
		return lm.height[i] + (lm.height[i+1]-lm.height[i])/float64(lm.position[i+1]-lm.position[i])
	}
	return lm.height[i] - (lm.height[i]-lm.height[i-1])/float64(lm.position[i]-lm.position[i-1])
}

// ValueAt returns the current quantile estimate. Before five observations
// have arrived it falls back to sorting the buffered seed values.
func (lm *latencyMarkers) ValueAt() float64 {
	if lm.seen == 0 {
		return 0
	}
	if lm.seen < 5 {
		sorted := make([]float64, lm.seen)
		copy(sorted, lm.seed[:lm.seen])
		for i := 1; i < lm.seen; i++ {
			key := sorted[i]
			j := i - 1
			for j >= 0 && sorted[j] > key {
				sorted[j+1] = sorted[j]
				j--
			}
			sorted[j+1] = key
		}
		index := int(float64(lm.seen-1) * lm.target)
		if index >= lm.seen {
			index = lm.seen - 1
		}
		return sorted[index]
	}
	return lm.height[2]
}

// latencyDistribution tracks the p50 and p99 of a pool's task-body
// durations, plus their mean and peak, using one latencyMarkers estimator
// per tracked quantile.
//
// Thread Safety: NOT thread-safe. poolMetrics guards this with a mutex.
type latencyDistribution struct {
	p50          *latencyMarkers
	p99          *latencyMarkers
	total        float64
	observations int
	peak         float64
}

func newLatencyDistribution() *latencyDistribution {
	return &latencyDistribution{
		p50:  newLatencyMarkers(0.50),
		p99:  newLatencyMarkers(0.99),
		peak: -math.MaxFloat64,
	}
}

func (d *latencyDistribution) Observe(x float64) {
	d.observations++
	d.total += x
	if x > d.peak {
		d.peak = x
	}
	d.p50.Observe(x)
	d.p99.Observe(x)
}

func (d *latencyDistribution) Observations() int { return d.observations }

func (d *latencyDistribution) P50() float64 { return d.p50.ValueAt() }

func (d *latencyDistribution) P99() float64 { return d.p99.ValueAt() }

func (d *latencyDistribution) Mean() float64 {
	if d.observations == 0 {
		return 0
	}
	return d.total / float64(d.observations)
}

func (d *latencyDistribution) Peak() float64 {
	if d.observations == 0 {
		return 0
	}
	return d.peak
}
