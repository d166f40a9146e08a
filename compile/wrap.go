package compile

import (
	"strings"

	"github.com/tdewolff/canvas"
)

// wrapText greedily wraps text into lines no wider than limit (mm), breaking
// at spaces and splitting words that are wider than a whole line on their
// own. An empty text yields a single empty line so vertical rhythm is kept.
func wrapText(text string, limit float64, face *canvas.FontFace) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0.0
	space := face.TextWidth(" ")

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	put := func(word string, width float64) {
		if cur.Len() > 0 {
			if curWidth+space+width > limit {
				flush()
			} else {
				cur.WriteByte(' ')
				curWidth += space
			}
		}
		cur.WriteString(word)
		curWidth += width
	}

	for _, word := range words {
		width := face.TextWidth(word)
		if width <= limit {
			put(word, width)
			continue
		}
		for _, chunk := range splitWord(word, limit, face) {
			put(chunk, face.TextWidth(chunk))
		}
	}
	flush()
	return lines
}

// splitWord cuts an overlong word into chunks that each fit within limit.
func splitWord(word string, limit float64, face *canvas.FontFace) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range word {
		cur.WriteRune(r)
		if face.TextWidth(cur.String()) > limit && cur.Len() > 1 {
			runes := []rune(cur.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			cur.Reset()
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
