// Copyright (C) 2024 Lattice Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package worker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/latticedb/lattice/filter"
	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
	"github.com/latticedb/lattice/table"
)

// ErrAlreadyInitialized is a ProtocolError: Initialize was called on a
// worker that already holds a processor.
var ErrAlreadyInitialized = errors.New("worker already initialized")

// ErrNotInitialized is a ProtocolError: ProcessFilters or FetchMemory
// was called before Initialize, or after the worker terminated.
var ErrNotInitialized = errors.New("worker not initialized")

// ErrUnknownMessage is a ProtocolError: Handle received a MessageType
// it does not recognize.
var ErrUnknownMessage = errors.New("unknown message type")

// State is a Worker's position in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateProcessing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateProcessing:
		return "processing"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Worker holds at most one FilterProcessor bound to a source table,
// reconstructed from a TableDescriptor over a shared buffer it already
// holds (handed to the process at spawn, or received via ipc.RecvTable).
// Its lifecycle is initialize -> ready -> processing -> ready ->
// terminated; ProcessFilters may be called any number of times between
// initialize and FetchMemory.
type Worker struct {
	mu    sync.Mutex
	state State
	buf   []byte
	src   *table.Table
}

// New wraps buf, the shared byte buffer this worker's tables will be
// reconstructed from. The worker starts uninitialized.
func New(buf []byte) *Worker {
	return &Worker{buf: buf, state: StateUninitialized}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Initialize constructs the worker's FilterProcessor over the source
// table described by opts.Table. Fails with ErrAlreadyInitialized if
// the worker is no longer uninitialized, including after FetchMemory
// has terminated it.
func (w *Worker) Initialize(opts InitializeOptions) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateUninitialized {
		return fmt.Errorf("%w", ErrAlreadyInitialized)
	}
	src, err := table.Open(w.buf, opts.Table)
	if err != nil {
		return fmt.Errorf("worker: initialize: %w", err)
	}
	w.src = src
	w.state = StateReady
	return nil
}

// ProcessFilters compiles opts' expression and result description
// against the worker's source table and runs the batched scan to
// completion, claiming row ranges from the shared indices cursor
// described by opts.Indices. Fails with ErrNotInitialized if the
// worker has not been initialized or has been torn down.
func (w *Worker) ProcessFilters(opts ProcessFiltersOptions) error {
	w.mu.Lock()
	if w.state != StateReady {
		w.mu.Unlock()
		return fmt.Errorf("%w", ErrNotInitialized)
	}
	w.state = StateProcessing
	src := w.src
	buf := w.buf
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if w.state == StateProcessing {
			w.state = StateReady
		}
		w.mu.Unlock()
	}()

	result, err := table.Open(buf, opts.ResultTable)
	if err != nil {
		return fmt.Errorf("worker: opening result table: %w", err)
	}

	full := region.FromBytes(buf)
	indicesReg, err := full.SubRegion(int(opts.Indices.Address), int(opts.Indices.Size))
	if err != nil {
		return fmt.Errorf("worker: opening indices region: %w", err)
	}

	srcRow := row.New(src.Region(), src.Header(), 0, true)
	test, err := filter.Compile(opts.Expression, srcRow)
	if err != nil {
		return fmt.Errorf("worker: compiling expression: %w", err)
	}
	write, err := filter.CompileWriter(opts.ResultDescription, result, srcRow)
	if err != nil {
		return fmt.Errorf("worker: compiling result writer: %w", err)
	}

	return filter.Scan(srcRow, src.RowCount(), indicesReg, opts.RowBatchSize, test, write)
}

// FetchMemory surrenders the worker's shared buffer back to the
// coordinator and terminates the worker; using it afterward is
// undefined. Fails with ErrNotInitialized if the worker was never
// initialized or has already terminated.
func (w *Worker) FetchMemory() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateUninitialized || w.state == StateTerminated {
		return nil, fmt.Errorf("%w", ErrNotInitialized)
	}
	buf := w.buf
	w.buf = nil
	w.src = nil
	w.state = StateTerminated
	return buf, nil
}

// Handle dispatches one inbound message and returns the reply: Success
// or Error. It never panics on a malformed message; protocol and
// compile-time failures both surface as an Error reply, per the
// propagation policy that treats a worker failure as a recoverable,
// reported condition rather than a crash.
func (w *Worker) Handle(msg Message) Message {
	switch msg.Type {
	case Initialize:
		if msg.InitializeOptions == nil {
			return Errorf(fmt.Errorf("initialize message missing options"))
		}
		if err := w.Initialize(*msg.InitializeOptions); err != nil {
			return Errorf(err)
		}
		return Successf(nil)
	case ProcessFilters:
		if msg.ProcessFiltersOptions == nil {
			return Errorf(fmt.Errorf("processFilters message missing options"))
		}
		if err := w.ProcessFilters(*msg.ProcessFiltersOptions); err != nil {
			return Errorf(err)
		}
		return Successf(nil)
	default:
		return Errorf(fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type))
	}
}
