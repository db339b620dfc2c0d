package confirm

import tea "github.com/charmbracelet/bubbletea"

// Key binding constants
const (
	KeyCtrlC = "ctrl+c"
	KeyEsc   = "esc"
	KeyEnter = "enter"
)

// IsQuit checks if the key message is Ctrl+C
func IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == KeyCtrlC
}

// IsCancel checks if the key message declines the prompt.
// Enter takes the default answer, which is no.
func IsCancel(msg tea.KeyMsg) bool {
	switch msg.String() {
	case KeyEsc, KeyEnter, "n", "N":
		return true
	}
	return false
}

// IsAccept checks if the key message accepts the prompt.
func IsAccept(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y":
		return true
	}
	return false
}
