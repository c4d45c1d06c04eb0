// Package history implements the navigation state machine over the
// append-only history log. All index arithmetic lives here: callers apply
// tagged transitions and react to the outcome, they never move the
// pointer themselves.
package history

import (
	"errors"
	"fmt"

	"github.com/genricoloni/muro/internal/domain"
)

var (
	// ErrAtOldest is reported by Prev at index 0; the state is unchanged
	ErrAtOldest = errors.New("already at the oldest wallpaper")

	// ErrEmpty is reported by transitions that need at least one entry
	ErrEmpty = errors.New("history is empty")

	// ErrIndexOutOfRange is reported by Jump with an invalid index
	ErrIndexOutOfRange = errors.New("history index out of range")
)

// Outcome tells the caller what a transition needs from it
type Outcome int

const (
	// OutcomeMoved means the pointer now rests on an existing entry; the
	// caller re-applies that entry from the cache, no network involved
	OutcomeMoved Outcome = iota

	// OutcomeFetch means the log is exhausted (or a new entry was forced):
	// the caller must fetch a new image and Append it
	OutcomeFetch
)

type opKind int

const (
	opNext opKind = iota
	opPrev
	opForceNew
	opJump
)

// Op is a tagged navigation transition
type Op struct {
	kind  opKind
	index int
}

// Next advances towards the newest entry, or asks for a fetch at the tail
func Next() Op { return Op{kind: opNext} }

// Prev steps back towards the oldest entry
func Prev() Op { return Op{kind: opPrev} }

// ForceNew unconditionally asks for a fetch
func ForceNew() Op { return Op{kind: opForceNew} }

// Jump moves the pointer to an absolute history index
func Jump(index int) Op { return Op{kind: opJump, index: index} }

// String describes the transition for logs
func (op Op) String() string {
	switch op.kind {
	case opNext:
		return "next"
	case opPrev:
		return "prev"
	case opForceNew:
		return "force-new"
	case opJump:
		return fmt.Sprintf("jump(%d)", op.index)
	}
	return "unknown"
}

// Apply runs one transition against the document, mutating only the
// navigation pointer. The history log itself is never touched: entries
// are added through Append and removed never.
func Apply(doc *domain.Document, op Op) (Outcome, error) {
	switch op.kind {
	case opNext:
		if len(doc.History) == 0 {
			return OutcomeFetch, nil
		}
		if doc.State.CurrentHistoryIndex < len(doc.History)-1 {
			move(doc, doc.State.CurrentHistoryIndex+1)
			return OutcomeMoved, nil
		}
		return OutcomeFetch, nil

	case opPrev:
		if len(doc.History) == 0 {
			return 0, ErrEmpty
		}
		if doc.State.CurrentHistoryIndex == 0 {
			return 0, ErrAtOldest
		}
		move(doc, doc.State.CurrentHistoryIndex-1)
		return OutcomeMoved, nil

	case opForceNew:
		return OutcomeFetch, nil

	case opJump:
		if len(doc.History) == 0 {
			return 0, ErrEmpty
		}
		if op.index < 0 || op.index >= len(doc.History) {
			return 0, fmt.Errorf("%w: %d (history has %d entries)",
				ErrIndexOutOfRange, op.index, len(doc.History))
		}
		move(doc, op.index)
		return OutcomeMoved, nil
	}

	return 0, fmt.Errorf("unknown navigation op %v", op)
}

// Append adds a freshly-fetched entry at the tail and moves the pointer
// onto it. Entries after the old pointer position survive: a forced fetch
// keeps the forward history instead of truncating it.
func Append(doc *domain.Document, w domain.Wallpaper) {
	doc.History = append(doc.History, w)
	move(doc, len(doc.History)-1)
}

// Current returns the entry under the pointer, if any
func Current(doc *domain.Document) (domain.Wallpaper, bool) {
	if len(doc.History) == 0 {
		return domain.Wallpaper{}, false
	}
	idx := doc.State.CurrentHistoryIndex
	if idx < 0 || idx >= len(doc.History) {
		return domain.Wallpaper{}, false
	}
	return doc.History[idx], true
}

func move(doc *domain.Document, index int) {
	doc.State.CurrentHistoryIndex = index
	doc.State.CurrentWallpaperID = doc.History[index].ID
}
