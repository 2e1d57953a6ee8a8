package sapling

import (
	"time"

	"github.com/sirupsen/logrus"
)

// frameStats holds per-tick timings. Only populated when the manifest
// enables debug; logged once per second of ticks.
type frameStats struct {
	update  time.Duration
	sort    time.Duration
	draw    time.Duration
	hooks   int
	objects int

	every int
	ticks int
}

func newFrameStats(tps int) *frameStats {
	if tps <= 0 {
		tps = defaultTPS
	}
	return &frameStats{every: tps}
}

func (s *frameStats) log(l *logrus.Entry) {
	s.ticks++
	if s.ticks < s.every {
		return
	}
	s.ticks = 0
	l.WithFields(logrus.Fields{
		"update":  s.update,
		"sort":    s.sort,
		"draw":    s.draw,
		"total":   s.update + s.sort + s.draw,
		"objects": s.objects,
		"hooks":   s.hooks,
	}).Debug("frame")
}
