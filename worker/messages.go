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

// Package worker implements the per-process message protocol a
// coordinator uses to drive a filter scan: initialize a worker against
// a source table once, then dispatch one or more processFilters runs
// against it, collecting a success or error reply for each.
package worker

import (
	"github.com/latticedb/lattice/filter"
	"github.com/latticedb/lattice/table"
)

// MessageType tags the inbound and outbound messages a Worker exchanges
// with its coordinator.
type MessageType string

const (
	Initialize     MessageType = "initialize"
	ProcessFilters MessageType = "processFilters"
	Success        MessageType = "success"
	Error          MessageType = "error"
)

// InitializeOptions carries the source table a Worker should bind its
// FilterProcessor to. Handed verbatim as the options of an Initialize
// message.
type InitializeOptions struct {
	Table table.TableDescriptor
}

// ProcessFiltersOptions carries one scan request: the expression to
// compile, the result description, where matches should be written,
// the shared cursor workers race on, and the batch width.
type ProcessFiltersOptions struct {
	Expression        filter.Expression
	ResultDescription filter.ResultDescription
	ResultTable       table.TableDescriptor
	Indices           table.MemoryBlockDescriptor
	RowBatchSize      uint32
}

// Message is one protocol envelope. An inbound message populates the
// Options field matching its Type; a Success or Error reply populates
// neither.
type Message struct {
	Type MessageType

	InitializeOptions     *InitializeOptions
	ProcessFiltersOptions *ProcessFiltersOptions

	// SuccessData is carried on a Success reply; may be nil.
	SuccessData any
	// ErrorReason is carried on an Error reply.
	ErrorReason string
}

// Successf builds a Success reply.
func Successf(data any) Message {
	return Message{Type: Success, SuccessData: data}
}

// Errorf builds an Error reply from err.
func Errorf(err error) Message {
	return Message{Type: Error, ErrorReason: err.Error()}
}
