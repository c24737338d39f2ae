package game

import (
	"fmt"
	"strings"

	"github.com/enescakir/emoji"
)

func renderPaused(username, role string) string {
	var b strings.Builder
	b.WriteString(emoji.Loudspeaker.String())
	b.WriteString(" Game paused. ")
	b.WriteString(fmt.Sprintf("%s (%s) disconnected", username, role))
	return b.String()
}

func renderTimeout(word string) string {
	return fmt.Sprintf("%s Time is up! The word was %q", emoji.Stopwatch.String(), word)
}

func renderGameOver(teamNumber int) string {
	return fmt.Sprintf("%s Team %d wins!", emoji.Trophy.String(), teamNumber)
}

func renderNoWords(c fmt.Stringer) string {
	return fmt.Sprintf("%s No words found for category: %s", emoji.CrossMark.String(), c)
}
