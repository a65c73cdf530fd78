package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Letter    rune // 0 if no letter, 'a'-'z' otherwise
	TaskNum   int  // 1-based position in the list's server order
	HasLetter bool // true if a list letter was provided
	Consumed  int  // number of args the reference used (1 or 2)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the start of args.
//
// Accepted forms:
//  1. all digits (3): task in the default list
//  2. <letter><digits> (a1, b12): task in the lettered list
//  3. <letter> <digits> (b 3): same, as two args
//
// A lone letter without a number is ErrTaskRefRequired; anything else
// is an invalid reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{TaskNum: num, Consumed: 1}, nil
	}

	if len(first) > 0 && isLetter(rune(first[0])) {
		letter := rune(first[0])

		if len(first) > 1 && isAllDigits(first[1:]) {
			num, err := strconv.Atoi(first[1:])
			if err != nil {
				return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
			}
			return TaskRef{Letter: letter, TaskNum: num, HasLetter: true, Consumed: 1}, nil
		}

		if len(first) == 1 {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[1])
				}
				return TaskRef{Letter: letter, TaskNum: num, HasLetter: true, Consumed: 2}, nil
			}
			return TaskRef{}, fmt.Errorf("invalid task reference: %s %s", first, args[1])
		}
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
