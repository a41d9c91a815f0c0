package service

// OpKind identifies a confirmed mutation.
type OpKind int

const (
	OpCreate OpKind = iota
	OpDelete
	OpComplete
	OpRename
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpComplete:
		return "complete"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Operation describes the mutation whose result is being reconciled.
// ID is the target task; it is ignored for OpCreate.
type Operation struct {
	Kind OpKind
	ID   string
}

// Reconcile returns the list that results from applying a server-confirmed
// mutation result to current. current is never modified.
//
//   - OpCreate appends result.
//   - OpDelete drops the task with the target ID; an unknown ID is a no-op.
//   - OpComplete copies result.Completed onto the matching task.
//   - OpRename copies result.Title onto the matching task.
//
// The target ID is op.ID, falling back to result.ID when op.ID is empty.
func Reconcile(current []Task, op Operation, result Task) []Task {
	id := op.ID
	if id == "" {
		id = result.ID
	}

	switch op.Kind {
	case OpCreate:
		next := make([]Task, 0, len(current)+1)
		next = append(next, current...)
		return append(next, result)

	case OpDelete:
		next := make([]Task, 0, len(current))
		for _, t := range current {
			if t.ID != id {
				next = append(next, t)
			}
		}
		return next

	case OpComplete, OpRename:
		next := make([]Task, len(current))
		copy(next, current)
		for i := range next {
			if next[i].ID != id {
				continue
			}
			if op.Kind == OpComplete {
				next[i].Completed = result.Completed
			} else {
				next[i].Title = result.Title
			}
		}
		return next
	}

	next := make([]Task, len(current))
	copy(next, current)
	return next
}
