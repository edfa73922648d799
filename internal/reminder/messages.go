package reminder

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

// funTemplates rotate through reminder emails to keep them from reading like
// machine output.
var funTemplates = []string{
	"Time to conquer this task! Your future self will thank you.",
	"Hey there! This task won't complete itself. Let's make it happen!",
	"Productivity mode: activated! You've got this one in the bag.",
	"Imagine how good it will feel to check '%s' off your list!",
	"Tick tock! Time is running, but you're faster. Prove it.",
	"Your to-do list believes in you, even on days when you don't.",
	"Success isn't about greatness. It's about consistency. Let's be consistent!",
}

var priorityPrefixes = map[string]string{
	"high":   "HIGH PRIORITY: ",
	"medium": "Medium priority: ",
	"low":    "Low priority: ",
}

// funMessage picks a rotating motivational line for a task, prefixed by its
// priority when one is set.
func funMessage(t task.Task) string {
	template := funTemplates[rand.Intn(len(funTemplates))]

	msg := template
	if strings.Contains(template, "%s") {
		msg = fmt.Sprintf(template, truncate(t.Description, 30))
	}
	if prefix, ok := priorityPrefixes[t.Priority]; ok {
		msg = prefix + msg
	}
	return msg
}
