package handler

import (
	"fmt"
	"strings"

	"flashcards/internal/domain"
	"flashcards/internal/quiz"
)

const completedText = "✅ Test mode completed successfully!"

func unitsText(units []string) string {
	if len(units) == 0 {
		return "📚 No units yet. Upload a CSV file through the web app first."
	}
	return fmt.Sprintf("📚 Loaded %d units\n\nChoose a unit:", len(units))
}

func learnText(unit string, words []domain.Word, index int, showDefinition bool) string {
	if len(words) == 0 {
		return fmt.Sprintf("📖 %s\n\nThis unit has no words.", unit)
	}

	word := words[index]
	var b strings.Builder
	fmt.Fprintf(&b, "📖 %s · %d/%d\n\n%s", unit, index+1, len(words), word.Word)
	if showDefinition {
		fmt.Fprintf(&b, "\n\n%s", word.Definition)
	}
	return b.String()
}

func testText(snap quiz.Snapshot, event quiz.Event) string {
	var b strings.Builder

	if event == quiz.EventRetryPassStarted {
		fmt.Fprintf(&b, "🔁 Retry pass %d: %d words\n\n", snap.Pass, snap.Remaining)
	}

	fmt.Fprintf(&b, "📝 Test · pass %d\nLeft: %d · Retry: %d\n\n%s", snap.Pass, snap.Remaining, snap.Retrying, snap.Word)
	if snap.Revealed {
		fmt.Fprintf(&b, "\n\n%s", snap.Definition)
	}
	if snap.Blocked {
		b.WriteString("\n\n⏳ Take a look, this word comes back in a moment.")
	}
	return b.String()
}

// clampIndex keeps a learn mode position inside the unit
func clampIndex(index, length int) int {
	if index >= length {
		index = length - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
