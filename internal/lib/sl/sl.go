// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках и идентификатора заведения.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Restaurant возвращает slog.Attr с ключом "restaurant_id".
// Используется в tenant-scoped операциях, чтобы каждый лог нес идентификатор заведения.
func Restaurant(id string) slog.Attr {
	return slog.Attr{
		Key:   "restaurant_id",
		Value: slog.StringValue(id),
	}
}
