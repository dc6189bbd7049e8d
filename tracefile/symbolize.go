// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import "github.com/ianlancetaylor/demangle"

// symbolTable accumulates instruction-pointer to symbol-name mappings as
// NEW_CALLSTACK_SYMS records arrive, and resolves callstack frames against
// them. Symbols only ever get added, never removed or changed, mirroring
// the trace format's append-only symbol table (spec.md §4.2).
type symbolTable struct {
	syms map[uint64]string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{syms: make(map[uint64]string)}
}

// add records newly resolved symbols, demangling any that look like C++
// mangled names. altrace's recorder writes whatever the target's symbol
// table carries verbatim, which for C++ callees is still mangled; the
// original playback tool deferred to an external demangler when printing
// a backtrace; demangle.Filter is the Go equivalent, and doing the work
// once here means every later Visitor sees human-readable names without
// having to know they might be mangled.
func (t *symbolTable) add(raw map[uint64]string) map[uint64]string {
	resolved := make(map[uint64]string, len(raw))
	for ip, name := range raw {
		clean := demangle.Filter(name)
		t.syms[ip] = clean
		resolved[ip] = clean
	}
	return resolved
}

// resolve fills in the Sym field of each frame whose symbol is already
// known. Frames referencing an IP this table hasn't seen yet keep an
// empty Sym; NewCallstackSyms typically arrives before the callstacks
// that need it, but the format makes no hard guarantee of that, so a
// caller holding onto old Call values will not retroactively see symbols
// resolved later.
func (t *symbolTable) resolve(frames []CallstackFrame) {
	for i := range frames {
		if sym, ok := t.syms[frames[i].IP]; ok {
			frames[i].Sym = sym
		}
	}
}
