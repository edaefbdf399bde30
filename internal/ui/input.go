package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// In is where prompts read answers from
var In io.Reader = os.Stdin

// Confirm prompts the user to type the expected value to confirm an action.
// Returns true if the user input matches expectedValue (case-insensitive).
func Confirm(prompt string, expectedValue string) bool {
	reader := bufio.NewReader(In)
	fmt.Fprint(Out, prompt)
	input, _ := reader.ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(input), expectedValue)
}
