package ui

import (
	"fmt"

	"github.com/koki-develop/go-fzf"
)

// PickExercise presents an interactive fuzzy finder over names and returns
// the chosen one, or "" when the user cancels.
func PickExercise(names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no exercises saved")
	}

	f, err := fzf.New(
		fzf.WithPrompt("Remove exercise > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return "", err
	}

	idxs, err := f.Find(
		names,
		func(i int) string { return names[i] },
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(names) {
				return ""
			}
			return formatPreview(names, i)
		}),
	)
	if err != nil {
		return "", err
	}
	if len(idxs) == 0 {
		return "", nil // User cancelled
	}

	return names[idxs[0]], nil
}

// formatPreview shows the position of names[i] and how many entries a
// removal would delete
func formatPreview(names []string, i int) string {
	matches := 0
	for _, n := range names {
		if n == names[i] {
			matches++
		}
	}
	return fmt.Sprintf("Exercise: %s\nPosition: %d of %d\nEntries removed: %d\n",
		names[i], i+1, len(names), matches)
}
