// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmltok

// Snapshot is a cheap, copyable capture of a Tokenizer's cursor and
// bookkeeping state, without the input slice itself. Restoring one
// rewinds (or fast-forwards) a Tokenizer built over the same input to
// exactly where the snapshot was taken, including whether it had
// already stopped with an error.
//
// Snapshot exists because the Tokenizer's whole state is already a
// plain value (see the Tokenizer doc comment); the only thing a plain
// struct copy wouldn't get right is the *Error pointer, which Snapshot
// copies by value into a non-pointer field so two independent
// Tokenizers never alias the same Error.
type Snapshot struct {
	pos   int
	state State
	depth uint

	seenDeclaration bool
	seenDoctype     bool
	seenRoot        bool
	inTag           bool
	inDtdSubset     bool

	hasErr bool
	err    Error
}

// Snapshot captures the Tokenizer's current cursor and state.
func (t *Tokenizer) Snapshot() Snapshot {
	s := Snapshot{
		pos:             t.stream.pos,
		state:           t.state,
		depth:           t.depth,
		seenDeclaration: t.seenDeclaration,
		seenDoctype:     t.seenDoctype,
		seenRoot:        t.seenRoot,
		inTag:           t.inTag,
		inDtdSubset:     t.inDtdSubset,
	}
	if t.fatalErr != nil {
		s.hasErr = true
		s.err = *t.fatalErr
	}
	return s
}

// Restore rewinds the Tokenizer to a previously captured Snapshot. The
// Snapshot must have come from this same Tokenizer (or one built over
// the same input); Restore does not check this and will happily
// produce nonsense positions otherwise.
func (t *Tokenizer) Restore(s Snapshot) {
	t.stream.pos = s.pos
	t.state = s.state
	t.depth = s.depth
	t.seenDeclaration = s.seenDeclaration
	t.seenDoctype = s.seenDoctype
	t.seenRoot = s.seenRoot
	t.inTag = s.inTag
	t.inDtdSubset = s.inDtdSubset
	if s.hasErr {
		err := s.err
		t.fatalErr = &err
	} else {
		t.fatalErr = nil
	}
}
