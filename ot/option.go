package ot

// Option holds a value which a font may or may not carry, such as the
// TrueType profile of table maxp or the signature triple of a collection
// header. The zero Option is empty.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a value present in the font.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether no value is present.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// Unwrap returns the value in the "(value, ok)" manner.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.ok
}

// Or returns the value, or def if absent.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Map derives an Option from a present value, e.g. a single field of a
// version-dependent table part.
func Map[T, U any](o Option[T], f func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(f(o.value))
}
