package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/state"
)

// errNoLists is returned when a command needs a list and none exist.
var errNoLists = &service.ValidationError{Message: "no lists yet (create one: taskflow createlist <title>)"}

// targetList picks the list a task command acts on: the --list flag, the
// reference's letter, or the first list in server order.
func targetList(app *state.Controller, listFlag string, ref TaskRef) (service.TodoList, error) {
	if listFlag != "" && ref.HasLetter {
		return service.TodoList{}, usage("cannot use both --list and list letter")
	}

	switch {
	case listFlag != "":
		return app.List(listFlag)
	case ref.HasLetter:
		return service.ResolveListByLetter(app.State().Lists, ref.Letter)
	default:
		lists := app.State().Lists
		if len(lists) == 0 {
			return service.TodoList{}, errNoLists
		}
		return lists[0], nil
	}
}

// lookupTask parses a task reference from args and finds the task.
// It returns the list, the task and the args following the reference.
func lookupTask(app *state.Controller, listFlag string, args []string) (service.TodoList, service.Task, []string, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return service.TodoList{}, service.Task{}, nil, usage("%s", err)
	}

	list, err := targetList(app, listFlag, ref)
	if err != nil {
		return service.TodoList{}, service.Task{}, nil, err
	}

	task, err := service.TaskAt(list, ref.TaskNum)
	if err != nil {
		return service.TodoList{}, service.Task{}, nil, usage("task number out of range: %d", ref.TaskNum)
	}
	return list, task, args[ref.Consumed:], nil
}

// fail prints err and returns its exit code.
func fail(errOut io.Writer, err error) int {
	msg := err.Error()
	if errors.Is(err, service.ErrNotLoggedIn) {
		msg = "not logged in (run: taskflow login)"
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.FromError(err)
}

// usage returns an error for a bad invocation.
func usage(format string, args ...interface{}) error {
	return &service.ValidationError{Message: fmt.Sprintf(format, args...)}
}

// succeed prints "ok" unless quiet. A refetch that failed after the
// change was accepted is reported as a warning.
func succeed(cfg *config.Config, app *state.Controller, out, errOut io.Writer) int {
	if err := app.State().Err; err != nil {
		fmt.Fprintf(errOut, "warning: %s (run: taskflow refresh)\n", err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// joinArgs joins positional args into one trimmed string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
