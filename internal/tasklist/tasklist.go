// Package tasklist extracts GFM task-list items from markdown text.
package tasklist

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Task is a single "- [ ]" or "- [x]" item.
type Task struct {
	Text    string
	Checked bool
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.TaskList))

// Extract parses markdown and returns every task-list item in document
// order, including items of nested lists.
func Extract(source string) []Task {
	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var tasks []Task
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}
		if task, ok := itemTask(item, src); ok {
			tasks = append(tasks, task)
		}
		return ast.WalkContinue, nil
	})
	return tasks
}

// Split partitions the task items of a markdown document into checked and
// unchecked sets.
func Split(source string) (checked, unchecked []Task) {
	for _, task := range Extract(source) {
		if task.Checked {
			checked = append(checked, task)
		} else {
			unchecked = append(unchecked, task)
		}
	}
	return checked, unchecked
}

// itemTask returns the task for a list item, if the item's first block
// starts with a task checkbox.
func itemTask(item *ast.ListItem, src []byte) (Task, bool) {
	block := item.FirstChild()
	if block == nil {
		return Task{}, false
	}
	checkbox, ok := block.FirstChild().(*east.TaskCheckBox)
	if !ok {
		return Task{}, false
	}

	var sb strings.Builder
	for n := checkbox.NextSibling(); n != nil; n = n.NextSibling() {
		writeText(&sb, n, src)
	}
	return Task{Text: strings.TrimSpace(sb.String()), Checked: checkbox.IsChecked}, true
}

// writeText renders the plain-text content of an inline node.
func writeText(sb *strings.Builder, n ast.Node, src []byte) {
	if t, ok := n.(*ast.Text); ok {
		sb.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			sb.WriteByte(' ')
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeText(sb, c, src)
	}
}
