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
	"fmt"
	"sync"
)

// Pool is a fixed-size set of in-process Workers sharing one buffer.
// It is the default transport: Broadcast runs each Worker's Handle on
// its own goroutine in the coordinator's own address space, by a
// direct method call rather than over a cross-process socket.
type Pool struct {
	workers []*Worker
}

// NewPool builds a Pool of n Workers, each wrapping the same buf. Every
// worker must still be sent its own Initialize message before the pool
// can run ProcessFilters.
func NewPool(buf []byte, n int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("worker: pool size must be > 0")
	}
	workers := make([]*Worker, n)
	for i := range workers {
		workers[i] = New(buf)
	}
	return &Pool{workers: workers}, nil
}

// Workers returns the pool's members, in a stable order.
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// Broadcast sends msg to every worker concurrently and collects their
// replies in worker order. The coordinator joins on a sync.WaitGroup
// rather than polling, matching the scan loop's own suspension model:
// no worker in the pool spins waiting on another.
func (p *Pool) Broadcast(msg Message) []Message {
	replies := make([]Message, len(p.workers))
	var wg sync.WaitGroup
	for i, w := range p.workers {
		i, w := i, w
		wg.Add(1)
		go func() {
			defer wg.Done()
			replies[i] = w.Handle(msg)
		}()
	}
	wg.Wait()
	return replies
}

// FirstError returns the first Error reply in replies, or nil if every
// reply was Success.
func FirstError(replies []Message) error {
	for _, r := range replies {
		if r.Type == Error {
			return fmt.Errorf("worker: %s", r.ErrorReason)
		}
	}
	return nil
}
