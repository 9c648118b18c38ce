package main

import "errors"

// Game errors whose text is sent back to clients as an "error" message.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotJoinable   = errors.New("game already in progress")
	ErrNotHost       = errors.New("only the host may do that")
	ErrDeckExhausted = errors.New("card pool exhausted")
)
