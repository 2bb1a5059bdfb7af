package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Префиксы callback data; полный вид "<prefix><id>"
const (
	CallbackBook      = "book:"
	CallbackSkipNotes = "skip_notes:"
	CallbackApprove   = "approve:"
	CallbackReject    = "reject:"
	CallbackCancel    = "cancel:"
	CallbackNoop      = "noop"
)

func CallbackData(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// ParseIDFromCallback "book:123" -> 123
func ParseIDFromCallback(data string) (int64, error) {
	_, raw, ok := strings.Cut(data, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return id, nil
}

// CommandArgs аргументы команды без самой команды: "/avail 1 2025-03-10" -> [1 2025-03-10]
func CommandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// ParseID разбирает положительный идентификатор из аргумента команды
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrInvalidFormat, s)
	}
	return id, nil
}

// ParseOptionalLimit "-" или "0" означает отсутствие лимита
func ParseOptionalLimit(s string) (*int, error) {
	if s == "-" || s == "0" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: limit %q", ErrInvalidFormat, s)
	}
	return &n, nil
}
