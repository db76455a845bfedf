package bot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/domino14/connectfour/board"
)

// A request is the red word, the blue word and the rollout budget, all big
// endian. A reply is one byte: the column, or board.NoMove.
const (
	RequestSize = 8 + 8 + 4
	ReplySize   = 1
)

var ErrBadFrame = errors.New("malformed frame")

func EncodeRequest(b board.Board, iterations uint32) []byte {
	red, blue := b.Words()
	buf := make([]byte, RequestSize)
	binary.BigEndian.PutUint64(buf[0:], red)
	binary.BigEndian.PutUint64(buf[8:], blue)
	binary.BigEndian.PutUint32(buf[16:], iterations)
	return buf
}

func DecodeRequest(data []byte) (b board.Board, iterations uint32, err error) {
	if len(data) != RequestSize {
		return b, 0, fmt.Errorf("%w: request is %d bytes, want %d", ErrBadFrame, len(data), RequestSize)
	}
	red := binary.BigEndian.Uint64(data[0:])
	blue := binary.BigEndian.Uint64(data[8:])
	return board.FromWords(red, blue), binary.BigEndian.Uint32(data[16:]), nil
}

func EncodeReply(column uint8) []byte {
	return []byte{column}
}

// DecodeReply returns the column, or board.NoMove when the bot had nothing
// to suggest.
func DecodeReply(data []byte) (int, error) {
	if len(data) != ReplySize {
		return 0, fmt.Errorf("%w: reply is %d bytes, want %d", ErrBadFrame, len(data), ReplySize)
	}
	if int(data[0]) > board.NoMove {
		return 0, fmt.Errorf("%w: column %d", ErrBadFrame, data[0])
	}
	return int(data[0]), nil
}
