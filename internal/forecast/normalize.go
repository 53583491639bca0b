package forecast

import (
	"log"
	"strings"

	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// Normalizer drives the mapper registry across all configured providers.
// It only reads previously persisted snapshots; it performs no network
// I/O.
type Normalizer struct {
	source    SnapshotSource
	mappers   map[string]Mapper
	generic   GenericFunc
	providers []string
}

// NewNormalizer creates a Normalizer over the given snapshot source,
// dedicated mapper registry, and generic fallback.
func NewNormalizer(source SnapshotSource, mappers map[string]Mapper, generic GenericFunc, providers []string) *Normalizer {
	return &Normalizer{
		source:    source,
		mappers:   mappers,
		generic:   generic,
		providers: providers,
	}
}

// Run normalizes every configured provider. Providers with no usable
// data contribute nothing. It returns the per-provider set plus a
// flattened list of the same records for inspection downstream.
func (n *Normalizer) Run() (NormalizedSet, []DailyRecord) {
	set := make(NormalizedSet)
	var flat []DailyRecord

	for _, prov := range n.providers {
		recs := n.NormalizeOne(prov)
		if len(recs) == 0 {
			continue
		}
		set[prov] = recs
		for _, r := range recs {
			r.Src = strings.ToUpper(prov)
			flat = append(flat, r)
		}
	}
	return set, flat
}

// NormalizeOne maps a single provider's snapshot to daily records.
// A missing or not-ok snapshot yields no records. A dedicated mapper
// that fails or yields nothing falls back to the generic mapper; a
// generic failure yields no records. No failure propagates.
func (n *Normalizer) NormalizeOne(providerID string) []DailyRecord {
	raw, err := n.source.Load(providerID)
	if err != nil || raw == nil {
		return nil
	}
	if !raw.OK {
		return nil
	}

	recs := n.mapDedicated(providerID, raw)
	if len(recs) == 0 && n.generic != nil {
		recs = n.mapGeneric(providerID, raw)
	}
	if len(recs) > MaxLookahead {
		recs = recs[:MaxLookahead]
	}
	return recs
}

func (n *Normalizer) mapDedicated(providerID string, raw *snapshot.Raw) (recs []DailyRecord) {
	m, ok := n.mappers[providerID]
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("normalize: mapper for %s panicked: %v", providerID, r)
			recs = nil
		}
	}()
	recs, err := m.Map(raw)
	if err != nil {
		log.Printf("normalize: mapper for %s failed: %v", providerID, err)
		return nil
	}
	return recs
}

func (n *Normalizer) mapGeneric(providerID string, raw *snapshot.Raw) (recs []DailyRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("normalize: generic mapper for %s panicked: %v", providerID, r)
			recs = nil
		}
	}()
	return n.generic(raw, providerID)
}
