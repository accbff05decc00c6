package gridcalc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/deps"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/recalc"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/transform"
)

// Engine owns the current snapshot of one sheet and applies edits to it.
// Each mutation runs to completion under a lock and commits exactly one
// new snapshot, or none when it returns an error.
type Engine struct {
	mu       sync.Mutex
	store    *Store
	logger   *slog.Logger
	recorder Recorder
	validate *validator.Validate
	session  string
}

// New creates an engine holding an empty snapshot.
func New(opts Options) *Engine {
	session := opts.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var recorder Recorder = nopRecorder{}
	if opts.Recorder != nil {
		recorder = opts.Recorder
	}
	return &Engine{
		store:    NewStore(opts.EffectiveHistoryLimit(), nil),
		logger:   logger.With("session", session),
		recorder: recorder,
		validate: validator.New(),
		session:  session,
	}
}

// SessionID returns the identifier attached to the engine's logs.
func (e *Engine) SessionID() string {
	return e.session
}

// Snapshot returns the current snapshot. Its Data must not be modified.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Current()
}

// Data returns the current cell data. It must not be modified.
func (e *Engine) Data() models.Data {
	return e.Snapshot().Data
}

// At returns a retained earlier snapshot.
func (e *Engine) At(version uint64) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.At(version)
}

// Versions lists the retained snapshot versions, oldest first.
func (e *Engine) Versions() []uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Versions()
}

// Detached returns a deep copy of the current data that the caller may
// modify freely.
func (e *Engine) Detached() (models.Data, error) {
	return e.Data().DeepCopy()
}

// Load replaces the sheet with a deep copy of data, as after an import.
// Formulas and edges are taken as given; nothing is re-evaluated.
func (e *Engine) Load(data models.Data) (Snapshot, error) {
	copied, err := data.DeepCopy()
	if err != nil {
		return Snapshot{}, NewOperationError("load", "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.store.Commit(copied)
	e.logger.Debug("data loaded", "version", snap.Version, "cells", len(copied))
	return snap, nil
}

// CommitEdit stores raw as the content of the cell at address. Formula
// input is evaluated, its dependency edges are rewired and every cell
// downstream is re-evaluated; other input is stored unchanged as text and
// "" clears the value. Dependents are re-evaluated in both cases. Only an
// unparseable address is an error; a bad formula stores the error marker.
func (e *Engine) CommitEdit(address, raw string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked(address, raw)
}

func (e *Engine) commitLocked(address, raw string) (Snapshot, error) {
	start := time.Now()

	a, err := ref.Parse(strings.ToUpper(strings.TrimSpace(address)))
	if err != nil {
		return Snapshot{}, NewOperationError("commit", address, err)
	}

	data := e.store.Current().Data.Clone()
	cell := data.Get(a)
	kind := "literal"
	if formula.IsFormula(raw) {
		cell.Formula = raw
		kind = "formula"
		call, err := formula.Compile(raw)
		if err != nil {
			e.logger.Debug("formula rejected", "address", string(a), "error", err)
			cell.Value = models.ErrorValue()
			kind = "error"
		} else {
			cell.Value = call.Eval(data)
		}
	} else {
		cell.Formula = ""
		cell.Value = models.Empty()
		if raw != "" {
			cell.Value = formula.Evaluate(raw, data)
		}
	}
	data[a] = cell

	data = deps.UpdateDependencies(a, cell.Formula, data)
	data, trace := recalc.PropagateTrace(a, data)

	snap := e.store.Commit(data)
	elapsed := time.Since(start)
	e.recorder.RecordCommit(kind, len(trace.Evaluated), elapsed)
	e.logger.Debug("cell committed",
		"address", string(a),
		"kind", kind,
		"version", snap.Version,
		"visited", len(trace.Visited),
		"evaluated", len(trace.Evaluated),
		"elapsed", elapsed,
	)
	return snap, nil
}

// ApplyTransform runs the named data-quality transform over selection.
// Dependency edges are not consulted and formulas are not re-evaluated.
func (e *Engine) ApplyTransform(name string, selection []ref.Address, args ...string) (Snapshot, error) {
	n, err := transform.ParseName(name)
	if err != nil {
		return Snapshot{}, NewOperationError("transform", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := transform.Apply(n, e.store.Current().Data, selection, args...)
	if err != nil {
		return Snapshot{}, NewOperationError("transform", name, err)
	}

	snap := e.store.Commit(data)
	e.recorder.RecordTransform(string(n), len(selection))
	e.logger.Debug("transform applied", "transform", string(n), "cells", len(selection), "version", snap.Version)
	return snap, nil
}

// ApplyAggregate commits =FN(first) for a single-cell selection, or
// =FN(first:last) otherwise, into target.
func (e *Engine) ApplyAggregate(fn formula.Function, selection []ref.Address, target string) (Snapshot, error) {
	if len(selection) == 0 {
		return Snapshot{}, NewOperationError("aggregate", target, ErrEmptySelection)
	}
	if _, ok := fn.Apply(nil); !ok {
		return Snapshot{}, NewOperationError("aggregate", target, fmt.Errorf("%w: %s", formula.ErrUnknownFunction, fn))
	}

	arg := string(selection[0])
	if last := selection[len(selection)-1]; len(selection) > 1 {
		arg += ":" + string(last)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked(target, fmt.Sprintf("=%s(%s)", fn, arg))
}

// DisplayText returns what the formula bar shows for address: the formula
// when the cell has one, else its value as text.
func (e *Engine) DisplayText(address string) (string, error) {
	a, err := ref.Parse(strings.ToUpper(strings.TrimSpace(address)))
	if err != nil {
		return "", NewOperationError("display", address, err)
	}
	cell := e.Data().Get(a)
	if cell.HasFormula() {
		return cell.Formula, nil
	}
	return cell.Value.String(), nil
}
