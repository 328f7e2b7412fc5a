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

package filter

import (
	"fmt"
	"strconv"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/row"
)

// predicate is a zero-argument boolean callable: a rule, a clause, or
// a whole expression all compile down to one.
type predicate func() bool

// Compile builds the tester for expr bound to src. Each rule captures
// src's getter for its column once, along with a preconverted
// comparand, so the inner scan loop is a closure call with no
// dictionary lookups or type dispatch.
func Compile(expr Expression, src *row.Row) (func() bool, error) {
	if err := expr.validate(); err != nil {
		return nil, err
	}
	if len(expr.Clauses) == 0 {
		return func() bool { return true }, nil
	}

	// DNF: clause ANDs its rules, expression ORs its clauses.
	// CNF: clause ORs its rules, expression ANDs its clauses.
	// The aggregation direction is the opposite at the clause level
	// vs. the expression level in both modes.
	clauseAll := expr.Mode == DNF
	exprAny := expr.Mode == DNF

	clausePreds := make([]predicate, len(expr.Clauses))
	for i, c := range expr.Clauses {
		p, err := compileClause(c, src, clauseAll)
		if err != nil {
			return nil, err
		}
		clausePreds[i] = p
	}

	if exprAny {
		return func() bool {
			for _, p := range clausePreds {
				if p() {
					return true
				}
			}
			return false
		}, nil
	}
	return func() bool {
		for _, p := range clausePreds {
			if !p() {
				return false
			}
		}
		return true
	}, nil
}

func compileClause(c Clause, src *row.Row, all bool) (predicate, error) {
	preds := make([]predicate, len(c))
	for i, r := range c {
		p, err := compileRule(r, src)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s %s): %w", i, r.Field, r.Op, err)
		}
		preds[i] = p
	}
	if all {
		return func() bool {
			for _, p := range preds {
				if !p() {
					return false
				}
			}
			return true
		}, nil
	}
	return func() bool {
		for _, p := range preds {
			if p() {
				return true
			}
		}
		return false
	}, nil
}

func compileRule(r Rule, src *row.Row) (predicate, error) {
	acc, ok := src.Accessor(r.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, r.Field)
	}
	get := acc.Get
	if acc.Type() == coltype.ByteString {
		return compileTextRule(r, get)
	}
	return compileNumericRule(r, get)
}

func compileTextRule(r Rule, get func() any) (predicate, error) {
	asText := func() coltype.ByteString { return get().(coltype.ByteString) }
	switch r.Op {
	case OpEqual:
		cmp := coltype.FromString(r.Value)
		return func() bool { return asText().EqualsCase(cmp) }, nil
	case OpNotEqual:
		cmp := coltype.FromString(r.Value)
		return func() bool { return !asText().EqualsCase(cmp) }, nil
	case OpContains:
		cmp := coltype.FromString(r.Value)
		return func() bool { return asText().ContainsCase(cmp) }, nil
	case OpNotContains:
		cmp := coltype.FromString(r.Value)
		return func() bool { return !asText().ContainsCase(cmp) }, nil
	case OpIn:
		set := newTextSet(r.Values)
		return func() bool { return set.contains(asText()) }, nil
	case OpNotIn:
		set := newTextSet(r.Values)
		return func() bool { return !set.contains(asText()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q on a text column", ErrBadOperation, r.Op)
	}
}

func compileNumericRule(r Rule, get func() any) (predicate, error) {
	asF64 := func() float64 { return numericValue(get()) }
	switch r.Op {
	case OpIn, OpNotIn:
		values := make([]float64, len(r.Values))
		for i, v := range r.Values {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrBadValue, v)
			}
			values[i] = f
		}
		set := newNumSet(values)
		if r.Op == OpIn {
			return func() bool { return set.contains(asF64()) }, nil
		}
		return func() bool { return !set.contains(asF64()) }, nil
	case OpContains, OpNotContains:
		return nil, fmt.Errorf("%w: %q on a numeric column", ErrBadOperation, r.Op)
	}

	cmp, err := strconv.ParseFloat(r.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadValue, r.Value)
	}
	switch r.Op {
	case OpEqual:
		return func() bool { return asF64() == cmp }, nil
	case OpNotEqual:
		return func() bool { return asF64() != cmp }, nil
	case OpGreaterThan:
		return func() bool { return asF64() > cmp }, nil
	case OpGreaterThanOrEqual:
		return func() bool { return asF64() >= cmp }, nil
	case OpLessThan:
		return func() bool { return asF64() < cmp }, nil
	case OpLessThanOrEqual:
		return func() bool { return asF64() <= cmp }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadOperation, r.Op)
	}
}

func numericValue(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		panic(fmt.Sprintf("filter: unexpected accessor value type %T", v))
	}
}
