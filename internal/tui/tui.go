package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkravets/tickle/internal/models"
	"github.com/mkravets/tickle/internal/store"
)

// RunAddTaskTUI starts the interactive add task form. It returns the
// created task, or nil if the user cancelled.
func RunAddTaskTUI(st *store.Store, prefilled map[string]string) (*models.Task, error) {
	return runTaskForm(NewAddTaskModel(st, prefilled))
}

// RunEditTaskTUI starts the edit form prefilled with the task's current
// values. It returns the updated task, or nil if the user cancelled.
func RunEditTaskTUI(st *store.Store, taskID uint, prefilled map[string]string) (*models.Task, error) {
	return runTaskForm(NewEditTaskModel(st, taskID, prefilled))
}

func runTaskForm(model AddTaskModel) (*models.Task, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	// Handle exit messages after the TUI closes
	m, ok := finalModel.(AddTaskModel)
	if !ok {
		return nil, nil
	}

	if m.cancelled {
		fmt.Println("❌ Cancelled.")
		return nil, nil
	}
	if m.completed && m.saved != nil {
		if m.isEditMode {
			fmt.Printf("✅ Task #%d updated: %s\n", m.saved.ID, m.saved.Title)
		} else {
			fmt.Printf("✅ New task \"%s\" added - ID: %d\n", m.saved.Title, m.saved.ID)
		}
		return m.saved, nil
	}
	if m.err != nil {
		return nil, m.err
	}

	return nil, nil
}
