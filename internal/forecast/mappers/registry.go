// Package mappers implements one forecast mapper per known provider,
// plus a schema-probing generic fallback.
package mappers

import (
	"errors"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

var errNoData = errors.New("no usable payload")

// Registry returns the dedicated mapper per provider identifier.
func Registry() map[string]forecast.Mapper {
	ms := []forecast.Mapper{
		HKO{},
		JMA{},
		MSS{},
		MetNo{},
		SMG{},
		BOM{},
		NOAA{},
	}
	out := make(map[string]forecast.Mapper, len(ms))
	for _, m := range ms {
		out[m.Provider()] = m
	}
	return out
}
