package util

import "golang.org/x/exp/constraints"

// Abs retorna o valor absoluto.
func Abs[T constraints.Signed](n T) T {
	if n < 0 {
		return -n
	}
	return n
}

// Clamp limita v ao intervalo [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloorDiv é a divisão inteira arredondada para baixo (também para negativos).
func FloorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv é a divisão inteira arredondada para cima, para operandos positivos.
func CeilDiv[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}
