package forecast

import (
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// Mapper translates one provider's raw snapshot into daily records.
// Implementations exist per provider because upstream schemas are
// structurally different (nested JSON, XML blocks, RSS items, plain
// text).
type Mapper interface {
	Provider() string
	Map(raw *snapshot.Raw) ([]DailyRecord, error)
}

// GenericFunc is the fallback mapping used for providers without a
// dedicated mapper, or when a dedicated mapper fails or yields nothing.
type GenericFunc func(raw *snapshot.Raw, providerID string) []DailyRecord

// SnapshotSource provides read access to persisted raw snapshots.
type SnapshotSource interface {
	Load(provider string) (*snapshot.Raw, error)
}
