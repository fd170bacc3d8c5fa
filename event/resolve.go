package event

import "fmt"

// Todo is the outcome of resolving an Event tree against an
// environment of bound occurrences: either Done with a value, or
// still Pending on a list of (address, signal) leaves.
type Todo struct {
	Done    bool
	Value   interface{}
	Pending []PendingSignal
}

func pendingTodo(p []PendingSignal) Todo {
	if p == nil {
		p = []PendingSignal{}
	}
	return Todo{Done: false, Pending: p}
}

func doneTodo(v interface{}) Todo {
	return Todo{Done: true, Value: v}
}

// Resolve is the structural resolver: a pure function of an Event
// tree and the environment of signal occurrences bound so far. It
// never mutates env or the tree, and is safe to call repeatedly with
// the same inputs (re-resolving an unchanged env against an unchanged
// tree always returns the same Todo).
func Resolve(e Event, env []SignalOccurrence) Todo {
	return resolveAt(e, env, SignalAddress{})
}

func findOccurrence(env []SignalOccurrence, path SignalAddress, s Signal) (SignalOccurrence, bool) {
	for _, occ := range env {
		if occ.Address.Equal(path) && occ.Signal.Equal(s) {
			return occ, true
		}
	}
	return SignalOccurrence{}, false
}

func resolveAt(e Event, env []SignalOccurrence, path SignalAddress) Todo {
	switch n := e.(type) {
	case PureV:
		return doneTodo(n.Value)

	case Empty:
		return pendingTodo(nil)

	case SignalLeaf:
		if occ, ok := findOccurrence(env, path, n.Signal); ok {
			return doneTodo(occ.Payload)
		}
		return pendingTodo([]PendingSignal{{Address: path, Signal: n.Signal}})

	case Sum:
		left := resolveAt(n.Left, env, appended(path, AddrStep{Kind: SumL}))
		if left.Done {
			return left
		}
		right := resolveAt(n.Right, env, appended(path, AddrStep{Kind: SumR}))
		if right.Done {
			return right
		}
		return pendingTodo(append(left.Pending, right.Pending...))

	case App:
		f := resolveAt(n.F, env, appended(path, AddrStep{Kind: AppL}))
		x := resolveAt(n.X, env, appended(path, AddrStep{Kind: AppR}))
		if f.Done && x.Done {
			fn, ok := f.Value.(func(interface{}) interface{})
			if !ok {
				panic(fmt.Sprintf("event: App left side resolved to %T, not func(interface{}) interface{}", f.Value))
			}
			return doneTodo(fn(x.Value))
		}
		return pendingTodo(append(append([]PendingSignal{}, f.Pending...), x.Pending...))

	case Bind:
		left := resolveAt(n.Left, env, appended(path, AddrStep{Kind: BindL}))
		if !left.Done {
			return pendingTodo(left.Pending)
		}
		next := n.Cont(left.Value)
		return resolveAt(next, env, appended(path, AddrStep{Kind: BindR}))

	case LiftPure:
		v, err := n.Pure.EvalPure()
		if err != nil {
			panic(fmt.Sprintf("event: LiftPure evaluation failed (engine invariant violation): %v", err))
		}
		return doneTodo(v)

	case Shortcut:
		results := make([]Maybe, len(n.Children))
		var pending []PendingSignal
		for i, child := range n.Children {
			t := resolveAt(child, env, appended(path, AddrStep{Kind: ShortcutChild, Index: i}))
			if t.Done {
				results[i] = Maybe{Ok: true, Value: t.Value}
			} else {
				pending = append(pending, t.Pending...)
			}
		}
		if n.Done(results) {
			return doneTodo(results)
		}
		return pendingTodo(pending)

	default:
		panic(fmt.Sprintf("event: unknown Event case %T", e))
	}
}

// MatchingAddresses returns, among an already-computed Todo's pending
// leaves, every address whose signal is satisfied by incoming. Used by
// package trigger to fan a single broadcast occurrence (a timer tick,
// a message, a lifecycle event) out to every leaf it satisfies at
// once; explicitly-addressed input occurrences are matched by address
// instead and do not go through this function.
func MatchingAddresses(pending []PendingSignal, incoming Signal) []PendingSignal {
	var out []PendingSignal
	for _, p := range pending {
		if matches(p.Signal, incoming) {
			out = append(out, p)
		}
	}
	return out
}
