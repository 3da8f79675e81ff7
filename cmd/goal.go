package cmd

import (
	"fmt"
	"os"
	"strings"
)

// GoalAdd records a new dreaming goal
func GoalAdd(text []string) {
	j := unlockJournal()
	defer j.Close()

	g, err := j.AddGoal(strings.Join(text, " "))
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("added goal: %s (%s)\n", g.Text, g.ID[:shortIDLen])
}

// GoalList shows all goals
func GoalList() {
	j := unlockJournal()
	defer j.Close()

	goals, err := j.Goals()
	if err != nil {
		HandleError(err)
	}
	if len(goals) == 0 {
		fmt.Println("No goals")
		return
	}
	for _, g := range goals {
		mark := "[ ]"
		if g.Done {
			mark = "[x]"
		}
		fmt.Printf("%s %s %s\n", g.ID[:shortIDLen], mark, g.Text)
	}
}

// GoalDone marks a goal as achieved
func GoalDone(id string) {
	if id == "" {
		fmt.Fprintln(os.Stderr, "Usage: dreamlock goal done <id>")
		os.Exit(1)
	}

	j := unlockJournal()
	defer j.Close()

	g, err := j.CompleteGoal(id)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("✓ %s\n", g.Text)
}
