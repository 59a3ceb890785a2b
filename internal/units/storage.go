package units

import "math"

// DispatchColumn runs the §4.2 stateful storage algorithm for one trial: it
// consumes the current net capacity column (as seen by this unit, i.e.
// after all units dispatched before it), and returns this unit's own
// contribution at each hour. SoC starts at zero and is integrated forward
// across the hour axis; callers are responsible for adding the returned
// contribution back into the shared NCM before dispatching the next
// storage unit.
func (s *Storage) DispatchColumn(net []float64) []float64 {
	contribution := make([]float64, len(net))
	sqrtEta := math.Sqrt(s.RoundTripEfficiency)
	soc := 0.0

	for h, n := range net {
		switch {
		case n >= 0 && soc < s.ChargeCapacityMWh:
			room := s.ChargeCapacityMWh - soc
			charged := math.Min(n, math.Min(s.ChargeRateMW, room))
			if charged < 0 {
				charged = 0
			}
			soc += charged * sqrtEta
			contribution[h] = -charged
		case n < 0 && soc > 0:
			demand := -n
			atBus := math.Min(demand, math.Min(s.DischargeRateMW, soc*sqrtEta))
			if atBus < 0 {
				atBus = 0
			}
			soc -= atBus / sqrtEta
			contribution[h] = atBus
		default:
			contribution[h] = 0
		}
		// Numerical drift guard; SoC must stay within [0, ChargeCapacityMWh].
		if soc < 0 {
			soc = 0
		}
		if soc > s.ChargeCapacityMWh {
			soc = s.ChargeCapacityMWh
		}
	}
	return contribution
}
