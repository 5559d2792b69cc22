package halopop

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

// Timing is the wall-clock time spent in one stage of a run.
type Timing struct {
	Stage   string
	Elapsed time.Duration
}

type stageTimer struct {
	log     bool
	timings []Timing
	ms      runtime.MemStats
}

// run times f and, if logging is on, reports when it starts and finishes.
func (st *stageTimer) run(stage string, f func() error) error {
	if st.log {
		log.Printf("Running %s...", stage)
	}

	start := time.Now()
	err := f()
	elapsed := time.Since(start)
	st.timings = append(st.timings, Timing{stage, elapsed})

	if st.log && err == nil {
		log.Printf(
			"Done running %s. Time elapsed: %s.", stage, formatElapsed(elapsed),
		)
	}
	return err
}

func (st *stageTimer) logMem() {
	if !st.log {
		return
	}
	runtime.ReadMemStats(&st.ms)
	log.Printf("Alloc - %d MB; Sys - %d MB", st.ms.Alloc>>20, st.ms.Sys>>20)
}

func formatElapsed(d time.Duration) string {
	min := int(d / time.Minute)
	sec := (d - time.Duration(min)*time.Minute).Seconds()
	return fmt.Sprintf("%dm%.2fs", min, sec)
}
