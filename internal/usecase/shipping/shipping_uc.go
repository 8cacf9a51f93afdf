package shipping

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrOptionNotFound = errors.New("shipping option not found")
)

// Resolver is the third-party rate lookup.
type Resolver interface {
	Rates(ctx context.Context, req RateRequest) ([]Option, error)
}

type Config struct {
	Origin         string
	Couriers       []string
	MinWeightGrams int
	Timeout        time.Duration
}

type Usecase struct {
	resolver Resolver
	cfg      Config
	log      *zap.Logger
}

// New accepts a nil resolver, in which case every quote is the fallback table.
func New(resolver Resolver, cfg Config, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MinWeightGrams <= 0 {
		cfg.MinWeightGrams = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Usecase{resolver: resolver, cfg: cfg, log: log}
}

// BillableWeight rounds light carts up to the provider minimum.
func BillableWeight(actualGrams, minGrams int) int {
	if actualGrams < minGrams {
		return minGrams
	}
	return actualGrams
}

// Options returns priced options sorted by cost. Provider failures never
// surface as errors: a courier that fails is skipped, and when nothing
// comes back the fallback table is returned with Degraded set.
func (u *Usecase) Options(ctx context.Context, destination string, actualWeightGrams int) (*Quote, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, ErrInvalidInput
	}
	weight := BillableWeight(actualWeightGrams, u.cfg.MinWeightGrams)

	var opts []Option
	if u.resolver != nil {
		opts = u.lookup(ctx, destination, weight)
	}

	degraded := false
	if len(opts) == 0 {
		u.log.Warn("shipping lookup unavailable, using fallback rates",
			zap.String("destination", destination),
			zap.Int("weight_grams", weight))
		opts = FallbackOptions()
		degraded = true
	}

	sortByCost(opts)
	return &Quote{
		Options:     opts,
		Default:     Cheapest(opts),
		WeightGrams: weight,
		Degraded:    degraded,
	}, nil
}

func (u *Usecase) lookup(ctx context.Context, destination string, weight int) []Option {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	var out []Option
	for _, courier := range u.cfg.Couriers {
		got, err := u.resolver.Rates(ctx, RateRequest{
			Origin:      u.cfg.Origin,
			Destination: destination,
			WeightGrams: weight,
			Courier:     courier,
		})
		if err != nil {
			u.log.Warn("courier rate lookup failed",
				zap.String("courier", courier),
				zap.String("destination", destination),
				zap.Error(err))
			continue
		}
		for _, o := range got {
			if o.Cost > 0 {
				out = append(out, o)
			}
		}
	}
	return out
}

func sortByCost(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Cost < opts[j].Cost })
}

// Cheapest returns the lowest-cost option, or nil for an empty list.
func Cheapest(opts []Option) *Option {
	if len(opts) == 0 {
		return nil
	}
	best := opts[0]
	for _, o := range opts[1:] {
		if o.Cost < best.Cost {
			best = o
		}
	}
	return &best
}

func Find(opts []Option, id string) (*Option, error) {
	for _, o := range opts {
		if strings.EqualFold(o.ID(), id) {
			found := o
			return &found, nil
		}
	}
	return nil, ErrOptionNotFound
}
