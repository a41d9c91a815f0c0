package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"faunatodo/internal/exitcode"
	"faunatodo/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the leading task number from args and returns the
// remaining args. Numbers are 1-based positions in the list as printed by
// `faunatodo list`.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}
	num, err := parseTaskNum(args[0])
	if err != nil {
		return 0, nil, err
	}
	return num, args[1:], nil
}

// ParseTaskRefs parses every arg as a task number.
func ParseTaskRefs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	nums := make([]int, 0, len(args))
	for _, arg := range args {
		num, err := parseTaskNum(arg)
		if err != nil {
			return nil, err
		}
		nums = append(nums, num)
	}
	return nums, nil
}

func parseTaskNum(s string) (int, error) {
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	num, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// outOfRangeError reports a task number past the end of the list.
type outOfRangeError struct {
	num int
}

func (e *outOfRangeError) Error() string {
	return fmt.Sprintf("task number out of range: %d", e.num)
}

// lookupTasks resolves numbers against one snapshot of the list, so later
// numbers don't shift when earlier tasks are deleted.
func lookupTasks(tasks []service.Task, nums ...int) ([]service.Task, error) {
	out := make([]service.Task, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(tasks) {
			return nil, &outOfRangeError{num: num}
		}
		out = append(out, tasks[num-1])
	}
	return out, nil
}

// reportRefError prints a task reference or lookup failure. Both are user
// errors.
func reportRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}
