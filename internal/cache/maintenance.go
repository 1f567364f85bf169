package cache

import (
	"fmt"
	"time"
)

// reportLoop periodically publishes the entry gauge and logs a stats line
// naming the next eviction candidate.
//
// Gauges are also refreshed on every Put; the loop keeps a scraper's view
// current for idle caches and gives operators a heartbeat in the log.
func (s *Synced[K, V]) reportLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reportEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			st := s.Stats()
			s.metrics.setEntries(st.Len)
			if s.logger == nil {
				continue
			}
			next := "none"
			if k, _, ok := s.Oldest(); ok {
				next = fmt.Sprint(k)
			}
			s.logger.Printf("cache stats: len=%d cap=%d hits=%d misses=%d puts=%d evictions=%d next=%s",
				st.Len, st.Cap, st.Hits, st.Misses, st.Puts, st.Evictions, next)
		}
	}
}
