package hint

import (
	"fmt"
	"strings"

	"github.com/mitchellh/colorstring"
)

// Tiles renders one guess as a colored board row: green tiles for exact
// slots, yellow for letters present elsewhere in the answer, dark gray
// for absent letters.
func Tiles(guess, truth string) string {
	var b strings.Builder
	for i := 0; i < len(guess); i++ {
		c := guess[i]
		switch {
		case i < len(truth) && truth[i] == c:
			fmt.Fprintf(&b, "[black][_green_] %c ", c)
		case strings.IndexByte(truth, c) >= 0:
			fmt.Fprintf(&b, "[black][_yellow_] %c ", c)
		default:
			fmt.Fprintf(&b, "[white][_dark_gray_] %c ", c)
		}
	}
	b.WriteString("[reset]")
	return colorstring.Color(b.String())
}
