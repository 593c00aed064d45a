// Package format prints an AST back to canonical program text.
//
// Назначение: unparse после обфускации и команда fmt.
// Вывод детерминирован: минимальные скобки, отступ 4 пробела, `else if` цепочки.
// Зависимости: internal/ast, internal/parser (таблица приоритетов, проверка round-trip).
package format
