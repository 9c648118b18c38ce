// The Mind is a cooperative, turn-less card game played in rounds
// Each player is dealt N hidden cards in round N, drawn from a shared pool of 1-100
// Players must play their cards in globally ascending order without communicating hands
// Playing a card while a smaller one is still held anywhere costs the group one of three lives
// A failed round reveals every hand, then restarts with fresh cards after a short delay
// Clearing every hand advances the round; clearing the final round wins the game
// Two players play 12 rounds, three or four players play 10
// At rounds 3, 6 and 9 everyone's lowest card is revealed as a hint

// Implementation details:
// - Rooms are identified by a 6-character code, shareable as a QR link
// - One websocket per player; the first message (create_room/join_room) binds identity
// - The room creator is host; host authority moves to the earliest joiner on departure
// - Any departure mid-game abandons the round and returns the room to the lobby

package games
