package interaction

// confirmMessages is the fixed, ordered gauntlet a user walks before a
// completion is accepted. Every message must be confirmed in order; there
// is no skipping and cancel restarts the walk from the beginning.
var confirmMessages = [...]string{
	"Are you sure you want to complete this task?",
	"Really? It looks pretty important...",
	"FINAL WARNING: completing this task cannot be un-smugly undone!",
}

// Stages returns how many confirm messages gate a completion.
func Stages() int {
	return len(confirmMessages)
}

// Messages returns the confirm messages in display order.
func Messages() []string {
	return confirmMessages[:]
}
