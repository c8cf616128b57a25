package engine

// Transport is the slice of the chat layer the engine consumes. Command
// replies travel back to the caller as structured outcomes; the engine
// only pushes its own lines (spawns, despawns) and private notices
// through here.
type Transport interface {
	// PresentUser reports whether the player is currently in the channel.
	PresentUser(network, channel, player string) bool

	// Announce sends a line to the channel.
	Announce(network, channel, text string)

	// Notice sends a private line to one player.
	Notice(network, channel, player, text string)
}
