package communication

import "errors"

// ErrClosed is returned once the other side has stopped sending.
var ErrClosed = errors.New("communicator closed")

// Communicator abstracts the channel between an agent and the program
// driving it. Moves travel in their canonical string form, one per message.
type Communicator interface {
	ReceiveMove() (string, error)
	SendMove(move string) error
}
