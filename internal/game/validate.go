package game

import "unicode/utf8"

// Boundary validation. Everything here is pure; errors are surfaced to the
// requesting client, unlike in-room authority checks which fail silent.

func ValidateName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MIN_NAME_LENGTH && n <= MAX_NAME_LENGTH
}

func ValidateMaxPlayers(maxPlayers int) bool {
	return maxPlayers >= MIN_MAX_PLAYERS && maxPlayers <= MAX_MAX_PLAYERS
}

func ValidateMaxRounds(maxRounds int) bool {
	return maxRounds >= MIN_MAX_ROUNDS && maxRounds <= MAX_MAX_ROUNDS
}

func ValidateGuess(guess int) bool {
	return guess >= 0 && guess <= TOTAL_CELLS
}
