package progress

import (
	"fmt"
	"strings"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
)

const (
	emptySummary  = "No tasks completed today. Ready to start your learning journey!"
	variousTopics = "various topics"
)

// Summary renders a one-sentence recap of the tasks completed today.
// Subjects are listed once each, in order of first appearance.
func Summary(completed []models.Task) string {
	if len(completed) == 0 {
		return emptySummary
	}

	seen := make(map[string]struct{}, len(completed))
	var subjects []string
	for _, t := range completed {
		if !t.HasSubject() {
			continue
		}
		subject := t.Subject
		if _, ok := seen[subject]; ok {
			continue
		}
		seen[subject] = struct{}{}
		subjects = append(subjects, subject)
	}

	topics := variousTopics
	if len(subjects) > 0 {
		topics = strings.Join(subjects, ", ")
	}

	noun := "task"
	if len(completed) > 1 {
		noun = "tasks"
	}
	return fmt.Sprintf("Great progress today! Completed %d %s in %s. Keep up the momentum!", len(completed), noun, topics)
}
