// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldWidth is the number of character cells on the display.
const FieldWidth = 4

var (
	// ErrOutOfField is returned for a write that does not fit between
	// position 0 and FieldWidth.
	ErrOutOfField = errors.New("write outside the display field")
	// ErrFieldOverflow is returned when a value needs more cells than it was given.
	ErrFieldOverflow = errors.New("value too wide for field")
)

// Sink is a rendering target addressing a FieldWidth character field.
// position is a 0-based offset from the left edge.
type Sink interface {
	Begin(brightness uint8) error
	Clear() error
	// ShowString writes up to length runes of text starting at position.
	ShowString(text string, length, position int) error
	// ShowNumber writes value right-justified in length cells starting at
	// position, zero padded when leadingZero is set.
	ShowNumber(value int, leadingZero bool, length, position int) error
}

// Field is the content of the display, one rune per cell. Blank cells hold a space.
type Field [FieldWidth]rune

// BlankField returns a field with every cell blank.
func BlankField() Field {
	return Field{' ', ' ', ' ', ' '}
}

func (f *Field) Clear() {
	*f = BlankField()
}

// PutString applies the ShowString contract to the field.
func (f *Field) PutString(text string, length, position int) error {
	if err := checkSpan(length, position); err != nil {
		return err
	}
	i := position
	for _, r := range text {
		if i >= position+length {
			break
		}
		f[i] = r
		i++
	}
	return nil
}

// PutNumber applies the ShowNumber contract to the field. A number that needs
// more than length cells is rejected whole rather than cut mid-digit.
func (f *Field) PutNumber(value int, leadingZero bool, length, position int) error {
	if err := checkSpan(length, position); err != nil {
		return err
	}
	var s string
	if leadingZero {
		s = fmt.Sprintf("%0*d", length, value)
	} else {
		s = fmt.Sprintf("%*d", length, value)
	}
	if len(s) > length {
		return fmt.Errorf("number %d in %d cells: %w", value, length, ErrFieldOverflow)
	}
	return f.PutString(s, length, position)
}

func (f Field) String() string {
	var b strings.Builder
	for _, r := range f {
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func checkSpan(length, position int) error {
	if position < 0 || length < 0 || position+length > FieldWidth {
		return fmt.Errorf("length %d at position %d: %w", length, position, ErrOutOfField)
	}
	return nil
}

// fit returns s if it fits the full field width.
func fit(s string) (string, error) {
	if utf8.RuneCountInString(s) > FieldWidth {
		return "", fmt.Errorf("%q: %w", s, ErrFieldOverflow)
	}
	return s, nil
}
