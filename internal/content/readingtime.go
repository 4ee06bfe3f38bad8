package content

// wordsPerMinute is a typical reading speed for English prose.
const wordsPerMinute = 225

// ReadingTime estimates whole minutes to read the given word count.
// Non-empty text never rounds down to zero.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return minutes
}
