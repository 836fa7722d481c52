package tasklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_MixedTasks(t *testing.T) {
	body := "- [x] task 1\n- [ ] task 2"

	tasks := Extract(body)
	require.Len(t, tasks, 2)
	assert.Equal(t, Task{Text: "task 1", Checked: true}, tasks[0])
	assert.Equal(t, Task{Text: "task 2", Checked: false}, tasks[1])
}

func TestSplit(t *testing.T) {
	body := "some intro\n\n- [x] done it\n- [ ] not yet\n- [ ] me neither\n\ntrailing text"

	checked, unchecked := Split(body)
	require.Len(t, checked, 1)
	require.Len(t, unchecked, 2)
	assert.Equal(t, "done it", checked[0].Text)
	assert.Equal(t, "not yet", unchecked[0].Text)
	assert.Equal(t, "me neither", unchecked[1].Text)
}

func TestExtract_IgnoresPlainListItems(t *testing.T) {
	body := "- just a bullet\n- [x] a real task\n- another bullet"

	tasks := Extract(body)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a real task", tasks[0].Text)
	assert.True(t, tasks[0].Checked)
}

func TestExtract_NestedLists(t *testing.T) {
	body := "- [ ] parent task\n  - [x] child task"

	tasks := Extract(body)
	require.Len(t, tasks, 2)
	assert.False(t, tasks[0].Checked)
	assert.True(t, tasks[1].Checked)
}

func TestExtract_NoTasks(t *testing.T) {
	assert.Empty(t, Extract("no markdown lists here at all"))
	assert.Empty(t, Extract(""))
}

func TestExtract_InlineFormatting(t *testing.T) {
	tasks := Extract("- [ ] update the **readme** with `usage`")
	require.Len(t, tasks, 1)
	assert.Equal(t, "update the readme with usage", tasks[0].Text)
}
