package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RoomCodeLength is the length of codes produced by NewRoomCode.
const RoomCodeLength = 6

const roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// roomCodeByteLimit is the largest multiple of the alphabet size that fits in
// a byte; bytes at or above it are discarded to keep the draw uniform.
const roomCodeByteLimit = 256 - 256%len(roomCodeAlphabet)

// NewParticipantID returns a process-unique participant identifier.
func NewParticipantID() string {
	return "user-" + uuid.NewString()
}

// NewMessageID returns "<unix millis>-<random hex>" for a message accepted at t.
func NewMessageID(t time.Time) string {
	buf := make([]byte, 8)
	// crypto/rand.Read never returns an error; it aborts the process instead.
	_, _ = rand.Read(buf)
	return strconv.FormatInt(t.UnixMilli(), 10) + "-" + hex.EncodeToString(buf)
}

// NewRoomCode returns a random upper-case base36 room code.
func NewRoomCode() string {
	code := make([]byte, 0, RoomCodeLength)
	buf := make([]byte, RoomCodeLength*2)
	for len(code) < RoomCodeLength {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= roomCodeByteLimit || len(code) == RoomCodeLength {
				continue
			}
			code = append(code, roomCodeAlphabet[int(b)%len(roomCodeAlphabet)])
		}
	}
	return string(code)
}
