package workbook

import "fmt"

type InvalidColumnError struct {
	Sheet string
	Title string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("sheet '%s': column '%s' does not exist", e.Sheet, e.Title)
}

type UniqueCheckError struct {
	Sheet string
	Title string
	Row1  int
	Row2  int
	Value string
}

func (e *UniqueCheckError) Error() string {
	return fmt.Sprintf("sheet '%s', column '%s': rows %d and %d contain the same value %q", e.Sheet, e.Title, e.Row1, e.Row2, e.Value)
}
