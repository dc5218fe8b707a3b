package simulation

import "github.com/guimove/greendc/internal/config"

// Reward scores one step: processed work is rewarded; grid carbon, dropped
// tasks and the residual queue are penalized.
func Reward(w config.RewardWeights, processed int, carbon float64, dropped, queue int) float64 {
	r := w.Throughput * float64(processed)
	r -= w.Carbon * carbon
	r -= w.Dropped * float64(dropped)
	r -= w.Queue * float64(queue)
	return r
}
