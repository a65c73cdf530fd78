package service

import (
	"fmt"
	"strings"
)

// MaxLetters is the number of lists addressable by letter (a-z).
const MaxLetters = 26

// LetterFor returns the letter of the list at index i in server order,
// or 0 if the index has none.
func LetterFor(i int) rune {
	if i < 0 || i >= MaxLetters {
		return 0
	}
	return rune('a' + i)
}

// ResolveList finds a list by ID or by title (case-insensitive, trimmed).
// An exact ID match wins over title matches.
func ResolveList(lists []TodoList, ref string) (TodoList, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return TodoList{}, listRefError(ErrListNotFound, ref)
	}

	for _, l := range lists {
		if l.ID == ref {
			return l, nil
		}
	}

	refLower := strings.ToLower(ref)
	var matches []TodoList
	for _, l := range lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == refLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return TodoList{}, listRefError(ErrListNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return TodoList{}, listRefError(ErrAmbiguousList, ref)
	}
}

// ResolveListByLetter returns the list whose position in server order
// matches letter.
func ResolveListByLetter(lists []TodoList, letter rune) (TodoList, error) {
	i := int(letter - 'a')
	if letter < 'a' || letter > 'z' || i >= len(lists) {
		return TodoList{}, listRefError(ErrListNotFound, string(letter))
	}
	return lists[i], nil
}

// TaskAt returns the task at 1-based position num in server order.
func TaskAt(list TodoList, num int) (Task, error) {
	if num < 1 || num > len(list.Tasks) {
		return Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, num)
	}
	return list.Tasks[num-1], nil
}
