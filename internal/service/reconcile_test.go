package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func sampleList() []Task {
	return []Task{
		{ID: "1", Title: "Buy eggs", Completed: false},
		{ID: "2", Title: "Walk dog", Completed: true},
		{ID: "3", Title: "Pay rent", Completed: false},
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		op     Operation
		result Task
		want   []Task
	}{
		{
			name:   "create appends",
			op:     Operation{Kind: OpCreate},
			result: Task{ID: "4", Title: "Buy milk"},
			want: append(sampleList(), Task{ID: "4", Title: "Buy milk"}),
		},
		{
			name:   "delete removes matching id",
			op:     Operation{Kind: OpDelete, ID: "2"},
			result: Task{ID: "2"},
			want: []Task{
				{ID: "1", Title: "Buy eggs"},
				{ID: "3", Title: "Pay rent"},
			},
		},
		{
			name:   "delete unknown id is a no-op",
			op:     Operation{Kind: OpDelete, ID: "99"},
			result: Task{ID: "99"},
			want:   sampleList(),
		},
		{
			name:   "delete falls back to result id",
			op:     Operation{Kind: OpDelete},
			result: Task{ID: "1"},
			want: []Task{
				{ID: "2", Title: "Walk dog", Completed: true},
				{ID: "3", Title: "Pay rent"},
			},
		},
		{
			name:   "complete copies completed only",
			op:     Operation{Kind: OpComplete, ID: "1"},
			result: Task{ID: "1", Title: "ignored", Completed: true},
			want: []Task{
				{ID: "1", Title: "Buy eggs", Completed: true},
				{ID: "2", Title: "Walk dog", Completed: true},
				{ID: "3", Title: "Pay rent"},
			},
		},
		{
			name:   "rename copies title only",
			op:     Operation{Kind: OpRename, ID: "2"},
			result: Task{ID: "2", Title: "Walk cat", Completed: false},
			want: []Task{
				{ID: "1", Title: "Buy eggs"},
				{ID: "2", Title: "Walk cat", Completed: true},
				{ID: "3", Title: "Pay rent"},
			},
		},
		{
			name:   "unknown kind returns a copy",
			op:     Operation{Kind: OpKind(42), ID: "1"},
			result: Task{ID: "1", Title: "x"},
			want:   sampleList(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := sampleList()
			got := Reconcile(current, tt.op, tt.result)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, sampleList(), current, "input must not be modified")
		})
	}
}

func TestReconcile_CompleteTogglesBackAndForth(t *testing.T) {
	list := []Task{{ID: "a", Title: "Buy milk"}}

	list = Reconcile(list, Operation{Kind: OpComplete, ID: "a"}, Task{ID: "a", Title: "Buy milk", Completed: true})
	assert.True(t, list[0].Completed)

	list = Reconcile(list, Operation{Kind: OpComplete, ID: "a"}, Task{ID: "a", Title: "Buy milk", Completed: false})
	assert.False(t, list[0].Completed)
	assert.Equal(t, "Buy milk", list[0].Title)
}

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "create", OpCreate.String())
	assert.Equal(t, "delete", OpDelete.String())
	assert.Equal(t, "complete", OpComplete.String())
	assert.Equal(t, "rename", OpRename.String())
	assert.Equal(t, "unknown", OpKind(9).String())
}

// genList draws a list with unique IDs.
func genList(rt *rapid.T) []Task {
	n := rapid.IntRange(0, 20).Draw(rt, "n")
	list := make([]Task, n)
	for i := range list {
		list[i] = Task{
			ID:        fmt.Sprintf("id-%d", i),
			Title:     rapid.String().Draw(rt, fmt.Sprintf("title_%d", i)),
			Completed: rapid.Bool().Draw(rt, fmt.Sprintf("completed_%d", i)),
		}
	}
	return list
}

func TestProperty_CreateGrowsByOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		list := genList(rt)
		created := Task{ID: "new", Title: rapid.String().Draw(rt, "title")}

		got := Reconcile(list, Operation{Kind: OpCreate}, created)
		if len(got) != len(list)+1 {
			rt.Fatalf("len = %d, want %d", len(got), len(list)+1)
		}
		if got[len(got)-1] != created {
			rt.Fatalf("last = %+v, want %+v", got[len(got)-1], created)
		}
	})
}

func TestProperty_DeleteRemovesExactlyOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		list := genList(rt)
		if len(list) == 0 {
			rt.Skip("empty list")
		}
		target := list[rapid.IntRange(0, len(list)-1).Draw(rt, "idx")]

		got := Reconcile(list, Operation{Kind: OpDelete, ID: target.ID}, Task{ID: target.ID})
		if len(got) != len(list)-1 {
			rt.Fatalf("len = %d, want %d", len(got), len(list)-1)
		}
		for _, task := range got {
			if task.ID == target.ID {
				rt.Fatalf("deleted id %s still present", target.ID)
			}
		}
	})
}

func TestProperty_UpdatesTouchOneField(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		list := genList(rt)
		if len(list) == 0 {
			rt.Skip("empty list")
		}
		idx := rapid.IntRange(0, len(list)-1).Draw(rt, "idx")
		target := list[idx]
		result := Task{
			ID:        target.ID,
			Title:     rapid.String().Draw(rt, "newTitle"),
			Completed: rapid.Bool().Draw(rt, "newCompleted"),
		}

		renamed := Reconcile(list, Operation{Kind: OpRename, ID: target.ID}, result)
		if renamed[idx].Title != result.Title || renamed[idx].Completed != target.Completed || renamed[idx].ID != target.ID {
			rt.Fatalf("rename: got %+v from %+v", renamed[idx], target)
		}

		completed := Reconcile(list, Operation{Kind: OpComplete, ID: target.ID}, result)
		if completed[idx].Completed != result.Completed || completed[idx].Title != target.Title {
			rt.Fatalf("complete: got %+v from %+v", completed[idx], target)
		}

		for i := range list {
			if i == idx {
				continue
			}
			if renamed[i] != list[i] || completed[i] != list[i] {
				rt.Fatalf("task %d changed", i)
			}
		}
	})
}
