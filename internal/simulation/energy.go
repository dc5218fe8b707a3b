package simulation

import "math"

// EnergyMix is the result of reconciling one hour of consumption against
// renewables, battery and grid. All values are kWh.
type EnergyMix struct {
	Green   float64 // solar, wind and battery discharge actually used
	Grid    float64
	Battery float64 // charge after reconciliation
	Charged float64
	Drained float64
}

// Reconcile splits consumed energy between sources. With a renewable
// surplus the battery absorbs the excess up to capacity and no grid power
// is used. Otherwise the battery covers as much of the deficit as it can
// and the grid supplies the rest. The battery never charges and drains in
// the same hour.
func Reconcile(consumed, solar, wind, battery, capacity float64) EnergyMix {
	renewable := solar + wind
	if consumed < renewable {
		after := clampCharge(battery+(renewable-consumed), capacity)
		return EnergyMix{
			Green:   consumed,
			Grid:    0,
			Battery: after,
			Charged: math.Max(0, after-battery),
		}
	}

	drain := math.Min(battery, consumed-renewable)
	green := renewable + drain
	return EnergyMix{
		Green:   green,
		Grid:    math.Max(0, consumed-green),
		Battery: clampCharge(battery-drain, capacity),
		Drained: drain,
	}
}

func clampCharge(v, capacity float64) float64 {
	return math.Min(capacity, math.Max(0, v))
}
