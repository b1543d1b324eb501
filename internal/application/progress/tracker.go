// Package progress implements the weighted step counter that drives the
// export progress bar.
package progress

import (
	"sync"
	"time"
)

// Step is one declared stage of an export with its fixed weight.
type Step struct {
	Label  string
	Weight int
}

// Snapshot é o valor transitório exposto ao chamador: passo atual, total,
// percentual e rótulo.
type Snapshot struct {
	Step       int    `json:"step"`
	TotalSteps int    `json:"total_steps"`
	Percent    int    `json:"percent"`
	Label      string `json:"label"`
}

// Tracker advances through a fixed sequence of weighted steps. Steps are
// recorded strictly in order by the caller; the percentage is monotonic and
// reaches exactly 100 only through Complete.
type Tracker struct {
	mu          sync.Mutex
	steps       []Step
	totalWeight int
	doneWeight  int
	index       int
	completed   bool
	label       string
	onChange    func(Snapshot)
	resetDelay  time.Duration
	resetTimer  *time.Timer
}

// NewTracker declares the step sequence up front, computed from which
// optional sections are enabled.
func NewTracker(steps []Step) *Tracker {
	t := &Tracker{steps: steps}
	for _, s := range steps {
		t.totalWeight += s.Weight
	}
	return t
}

// OnChange registra o callback chamado a cada snapshot novo.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// WithAutoReset makes Complete schedule a Reset after the given delay,
// returning the tracker to idle.
func (t *Tracker) WithAutoReset(delay time.Duration) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetDelay = delay
	return t
}

// TotalWeight é a soma dos pesos de todos os passos declarados.
func (t *Tracker) TotalWeight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalWeight
}

// Advance records the next step in sequence and returns the new snapshot.
// Advancing past the last declared step is a no-op.
func (t *Tracker) Advance() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.index < len(t.steps) {
		step := t.steps[t.index]
		t.doneWeight += step.Weight
		t.label = step.Label
		t.index++
	}
	return t.notifyLocked()
}

// Complete marks the export finished; only here does the percentage reach
// exactly 100.
func (t *Tracker) Complete() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed = true
	t.doneWeight = t.totalWeight
	t.label = "Complete"

	if t.resetDelay > 0 {
		t.resetTimer = time.AfterFunc(t.resetDelay, t.Reset)
	}
	return t.notifyLocked()
}

// Reset devolve o tracker ao estado ocioso: {0, 0 passos, rótulo vazio}.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
	t.steps = nil
	t.totalWeight = 0
	t.doneWeight = 0
	t.index = 0
	t.completed = false
	t.label = ""
	t.notifyLocked()
}

// Snapshot returns the current progress without advancing.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Step:       t.index,
		TotalSteps: len(t.steps),
		Percent:    t.percentLocked(),
		Label:      t.label,
	}
}

// percentLocked: monotônico, limitado a 99 até o Complete explícito.
func (t *Tracker) percentLocked() int {
	if t.completed {
		return 100
	}
	if t.totalWeight == 0 {
		return 0
	}
	p := t.doneWeight * 100 / t.totalWeight
	if p > 99 {
		p = 99
	}
	return p
}

func (t *Tracker) notifyLocked() Snapshot {
	snap := t.snapshotLocked()
	if t.onChange != nil {
		t.onChange(snap)
	}
	return snap
}
