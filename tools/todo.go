package tools

import (
	"context"
	"fmt"
	"strings"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

// TodoAddInput defines the input for the todo_add tool.
type TodoAddInput struct {
	SessionID   string   `json:"session_id" jsonschema:"required,description=Session to add the todo to"`
	Title       string   `json:"title" jsonschema:"required,minLength=1,description=Short title of the work item"`
	Description string   `json:"description,omitempty" jsonschema:"description=Longer free-form details"`
	Tags        []string `json:"tags,omitempty" jsonschema:"description=Labels for filtering. Duplicates are kept"`
	Identity    string   `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format      string   `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// TodoAddTool appends a pending todo to a session.
type TodoAddTool struct{ base }

var _ scratchpad.Tool[TodoAddInput] = (*TodoAddTool)(nil)

func (t *TodoAddTool) Name() string { return "todo_add" }
func (t *TodoAddTool) Description() string {
	return "Append a pending todo to the end of a session's todo list."
}

func (t *TodoAddTool) Execute(_ context.Context, input TodoAddInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	todo, err := t.store.AddTodo(input.SessionID, input.Identity, scratchpad.TodoDraft{
		Title:       input.Title,
		Description: input.Description,
		Tags:        input.Tags,
	})
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeTodo(f, todo))
}

// TodoListInput defines the input for the todo_list tool.
type TodoListInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session to list"`
	Status    string `json:"status,omitempty" jsonschema:"enum=pending,enum=done,enum=all,description=Status filter (default all)"`
	Tag       string `json:"tag,omitempty" jsonschema:"description=Glob matched against tags. e.g. bug/*"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format    string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// TodoListTool lists a session's todos in insertion order.
type TodoListTool struct{ base }

var _ scratchpad.Tool[TodoListInput] = (*TodoListTool)(nil)

func (t *TodoListTool) Name() string { return "todo_list" }
func (t *TodoListTool) Description() string {
	return "List todos in insertion order, optionally filtered by status and tag glob."
}

func (t *TodoListTool) Execute(_ context.Context, input TodoListInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	filter := scratchpad.TodoFilter{Tag: input.Tag}
	if st := strings.TrimSpace(input.Status); st != "" && !strings.EqualFold(st, "all") {
		status, err := scratchpad.ParseTodoStatus(st)
		if err != nil {
			return scratchpad.ErrorResultFor(err), nil
		}
		filter.Status = &status
	}
	s, err := t.store.Get(input.SessionID, input.Identity)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	todos, err := s.FilterTodos(filter)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeTodos(f, todos))
}

// TodoUpdateInput defines the input for the todo_update tool.
type TodoUpdateInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session holding the todo"`
	TodoID    string `json:"todo_id" jsonschema:"required,description=Todo to update"`
	Status    string `json:"status" jsonschema:"required,enum=pending,enum=done,description=New status"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format    string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// TodoUpdateTool sets the status of one todo.
type TodoUpdateTool struct{ base }

var _ scratchpad.Tool[TodoUpdateInput] = (*TodoUpdateTool)(nil)

func (t *TodoUpdateTool) Name() string        { return "todo_update" }
func (t *TodoUpdateTool) Description() string { return "Set a todo's status to pending or done." }

func (t *TodoUpdateTool) Execute(_ context.Context, input TodoUpdateInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireTodoID(input.TodoID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	status, err := scratchpad.ParseTodoStatus(input.Status)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	todo, err := t.store.SetTodoStatus(input.SessionID, input.Identity, input.TodoID, status)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeTodo(f, todo))
}

// TodoDeleteInput defines the input for the todo_delete tool.
type TodoDeleteInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session holding the todo"`
	TodoID    string `json:"todo_id" jsonschema:"required,description=Todo to delete"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
}

// TodoDeleteTool removes one todo, keeping the order of the rest.
type TodoDeleteTool struct{ base }

var _ scratchpad.Tool[TodoDeleteInput] = (*TodoDeleteTool)(nil)

func (t *TodoDeleteTool) Name() string        { return "todo_delete" }
func (t *TodoDeleteTool) Description() string { return "Delete one todo from a session." }

func (t *TodoDeleteTool) Execute(_ context.Context, input TodoDeleteInput) (*scratchpad.ToolResult, error) {
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireTodoID(input.TodoID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := t.store.RemoveTodo(input.SessionID, input.Identity, input.TodoID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return scratchpad.TextResult(fmt.Sprintf("todo %s deleted", input.TodoID)), nil
}
