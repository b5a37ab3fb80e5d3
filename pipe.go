package ro

// Operator is a function that transforms an Observable[T] into an
// Observable[R]. Every combinator in this library that isn't a source
// constructor or a terminal operation has this shape, so it can be composed
// with Pipe1..Pipe6.
type Operator[T, R any] func(Observable[T]) Observable[R]

// Pipe1 applies a single Operator to source. It exists alongside Pipe2..Pipe6
// purely so call sites read the same way regardless of chain length.
func Pipe1[T, A any](source Observable[T], op1 Operator[T, A]) Observable[A] {
	return op1(source)
}

func Pipe2[T, A, B any](source Observable[T], op1 Operator[T, A], op2 Operator[A, B]) Observable[B] {
	return op2(op1(source))
}

func Pipe3[T, A, B, C any](source Observable[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C]) Observable[C] {
	return op3(op2(op1(source)))
}

func Pipe4[T, A, B, C, D any](source Observable[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D]) Observable[D] {
	return op4(op3(op2(op1(source))))
}

func Pipe5[T, A, B, C, D, E any](source Observable[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D], op5 Operator[D, E]) Observable[E] {
	return op5(op4(op3(op2(op1(source)))))
}

func Pipe6[T, A, B, C, D, E, F any](source Observable[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D], op5 Operator[D, E], op6 Operator[E, F]) Observable[F] {
	return op6(op5(op4(op3(op2(op1(source))))))
}
