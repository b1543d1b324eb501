// Package preview implements the pre-save confirmation gate around a
// rendered document.
package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// State of the preview gate.
type State int

const (
	StateClosed State = iota
	StateLoading
	StatePreviewing
	StateConfirmed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoading:
		return "loading"
	case StatePreviewing:
		return "previewing"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Artifact holds the rendered document as a transient temp file, the Go
// analog of a revocable object URL. Release removes the file and is safe to
// call from every exit path; it runs at most once.
type Artifact struct {
	path     string
	size     int64
	pages    int
	once     sync.Once
	releases int
}

// NewArtifact escreve o documento em um arquivo temporário.
func NewArtifact(pdf []byte, pages int) (*Artifact, error) {
	f, err := os.CreateTemp("", "costreport-preview-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating preview file: %w", err)
	}
	if _, err := f.Write(pdf); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("writing preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("closing preview file: %w", err)
	}
	return &Artifact{path: f.Name(), size: int64(len(pdf)), pages: pages}, nil
}

// Path is the temp-file location while the artifact is alive.
func (a *Artifact) Path() string { return a.path }

// Size em bytes do documento renderizado.
func (a *Artifact) Size() int64 { return a.size }

// Pages do documento renderizado.
func (a *Artifact) Pages() int { return a.pages }

// Release removes the backing file exactly once.
func (a *Artifact) Release() error {
	var err error
	a.once.Do(func() {
		a.releases++
		err = os.Remove(a.path)
	})
	return err
}

// PersistTo copies the artifact to its final location, creating the
// directory if needed. The artifact stays alive for the caller to release.
func (a *Artifact) PersistTo(destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	src, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("opening preview artifact: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	return dst.Close()
}

// Gate is the Closed -> Loading -> Previewing -> {Confirmed, Cancelled}
// state machine. One export runs at a time per gate instance, so no locking
// is needed; the artifact itself guards its single release.
type Gate struct {
	state    State
	artifact *Artifact
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{state: StateClosed}
}

// State atual do gate.
func (g *Gate) State() State { return g.state }

// Artifact currently held by the gate, nil unless previewing or confirmed.
func (g *Gate) Artifact() *Artifact { return g.artifact }

// Open transitions Closed -> Loading: the binary document is not ready yet.
func (g *Gate) Open() error {
	if g.state != StateClosed {
		return fmt.Errorf("cannot open preview from state %s", g.state)
	}
	g.state = StateLoading
	return nil
}

// Ready transitions Loading -> Previewing with the rendered artifact.
func (g *Gate) Ready(a *Artifact) error {
	if g.state != StateLoading {
		_ = a.Release()
		return fmt.Errorf("cannot present preview from state %s", g.state)
	}
	g.artifact = a
	g.state = StatePreviewing
	return nil
}

// Confirm persists the artifact via the supplied callback and releases the
// transient copy. The persist error aborts the confirm; the artifact is
// kept for a manual retry.
func (g *Gate) Confirm(persist func(a *Artifact) error) error {
	if g.state != StatePreviewing {
		return fmt.Errorf("cannot confirm preview from state %s", g.state)
	}
	if persist != nil {
		if err := persist(g.artifact); err != nil {
			return err
		}
	}
	g.state = StateConfirmed
	return g.artifact.Release()
}

// Cancel discards the document; valid while loading or previewing.
func (g *Gate) Cancel() error {
	if g.state != StateLoading && g.state != StatePreviewing {
		return fmt.Errorf("cannot cancel preview from state %s", g.state)
	}
	g.state = StateCancelled
	if g.artifact != nil {
		return g.artifact.Release()
	}
	return nil
}

// Close releases on any exit path and returns the gate to Closed. Safe to
// call repeatedly (the deferred unmount path).
func (g *Gate) Close() {
	if g.artifact != nil {
		_ = g.artifact.Release()
	}
	g.state = StateClosed
}
