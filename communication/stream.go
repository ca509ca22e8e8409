package communication

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// StreamCommunicator exchanges newline separated moves over a reader and a
// writer, typically stdin and stdout.
type StreamCommunicator struct {
	scanner *bufio.Scanner
	writer  *bufio.Writer
	mutex   sync.Mutex
}

func NewStreamCommunicator(r io.Reader, w io.Writer) *StreamCommunicator {
	return &StreamCommunicator{
		scanner: bufio.NewScanner(r),
		writer:  bufio.NewWriter(w),
	}
}

// ReceiveMove returns the next non-empty line with surrounding whitespace
// removed, or ErrClosed at the end of the input.
func (sc *StreamCommunicator) ReceiveMove() (string, error) {
	for sc.scanner.Scan() {
		line := strings.TrimSpace(sc.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := sc.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read move: %w", err)
	}
	return "", ErrClosed
}

func (sc *StreamCommunicator) SendMove(move string) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	if _, err := sc.writer.WriteString(move + "\n"); err != nil {
		return fmt.Errorf("failed to write move: %w", err)
	}
	if err := sc.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush move: %w", err)
	}
	return nil
}

// ChannelCommunicator connects two goroutines in the same process. Moves
// sent by one end are received by the other.
type ChannelCommunicator struct {
	in  <-chan string
	out chan<- string
}

// NewPipe returns both ends of an in-memory connection.
func NewPipe(buffer int) (*ChannelCommunicator, *ChannelCommunicator) {
	a := make(chan string, buffer)
	b := make(chan string, buffer)
	return &ChannelCommunicator{in: a, out: b}, &ChannelCommunicator{in: b, out: a}
}

func (cc *ChannelCommunicator) ReceiveMove() (string, error) {
	move, ok := <-cc.in
	if !ok {
		return "", ErrClosed
	}
	return move, nil
}

func (cc *ChannelCommunicator) SendMove(move string) error {
	cc.out <- move
	return nil
}

// Close stops the other end from receiving further moves. SendMove must not
// be called afterwards.
func (cc *ChannelCommunicator) Close() {
	close(cc.out)
}
