package format

import (
	"fmt"
	"strings"

	scratchpad "github.com/armatrix/agent-scratchpad"
)

const todoFields = "id,title,status,tags,description,created_at"

var (
	fieldEscaper = strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		",", `\,`,
	)
	tagEscaper = strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		",", `\,`,
		"|", `\|`,
		`"`, `\"`,
	)
)

// emptyTag marks a tag that is the empty string, so [""] and no tags render
// differently. Literal quotes in tags are escaped and cannot collide with it.
const emptyTag = `""`

// escape makes free text safe to place in a single table cell.
func escape(s string) string {
	return fieldEscaper.Replace(s)
}

func joinTags(tags []string) string {
	escaped := make([]string, len(tags))
	for i, t := range tags {
		if t == "" {
			escaped[i] = emptyTag
			continue
		}
		escaped[i] = tagEscaper.Replace(t)
	}
	return strings.Join(escaped, "|")
}

func writeRow(b *strings.Builder, cells ...string) {
	b.WriteString(strings.Join(cells, ","))
}

func writeTodoRow(b *strings.Builder, t scratchpad.Todo) {
	writeRow(b,
		escape(t.ID),
		escape(t.Title),
		escape(string(t.Status)),
		joinTags(t.Tags),
		escape(t.Description),
		timestamp(t.CreatedAt),
	)
}

// writeTodos writes the header and one indented row per todo, each line
// terminated by a newline.
func writeTodos(b *strings.Builder, todos []scratchpad.Todo) {
	if len(todos) == 0 {
		b.WriteString("todos[0]:\n")
		return
	}
	fmt.Fprintf(b, "todos[%d]{%s}:\n", len(todos), todoFields)
	for _, t := range todos {
		b.WriteString("  ")
		writeTodoRow(b, t)
		b.WriteString("\n")
	}
}
