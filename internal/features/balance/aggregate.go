package balance

import (
	"context"
	"fmt"

	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/retry"

	"go.uber.org/zap"
)

type Observation struct {
	Address string
	Value   float64
}

// Result holds per-address values in input order and their sum.
type Result struct {
	Source       string
	Observations []Observation
	Total        float64
}

// Balances returns the address to value mapping. An address listed more than
// once maps to the sum of its observations, so the values always add up to Total.
func (r Result) Balances() map[string]float64 {
	out := make(map[string]float64, len(r.Observations))
	for _, o := range r.Observations {
		out[o.Address] += o.Value
	}
	return out
}

// Aggregate looks up every address serially. Failed lookups count as 0.
func Aggregate(ctx context.Context, src Source, addresses []string, opts retry.Options) Result {
	res := Result{
		Source:       src.Name(),
		Observations: make([]Observation, 0, len(addresses)),
	}
	for _, addr := range addresses {
		v := FetchWithRetry(ctx, src, addr, opts)
		res.Observations = append(res.Observations, Observation{Address: addr, Value: v})
		res.Total += v

		log.LogInfo(fmt.Sprintf("%s %s %.2f", src.Name(), addr, v),
			zap.String("source", src.Name()),
			zap.String("address", addr),
			zap.Float64("value", v))
	}
	return res
}
