// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

import (
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/store"
)

// Strategy defines the interface for cache eviction strategies.
type Strategy interface {
	Get(key store.Key) ([]game.Record, bool)
	Add(key store.Key, value []game.Record) bool
	Remove(key store.Key) bool
	Len() int
}
