package tariff

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nurpe/kostenersatz/internal/model"
)

type RateStore interface {
	ListRates(ctx context.Context, versionID string) ([]model.Rate, error)
}

type Resolver struct {
	store RateStore
	log   zerolog.Logger
}

func NewResolver(store RateStore, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns the rates in effect for versionID. A version without
// persisted rates resolves to the built-in catalog stamped with that id.
func (r *Resolver) Resolve(ctx context.Context, versionID string) ([]model.Rate, error) {
	if versionID == "" {
		versionID = DefaultVersionID
	}

	rates, err := r.store.ListRates(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		r.log.Debug().Str("version", versionID).Msg("no persisted rates, using default catalog")
		return DefaultCatalog(versionID), nil
	}

	SortRates(rates)
	return rates, nil
}

func SortRates(rates []model.Rate) {
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].SortOrder < rates[j].SortOrder
	})
}
