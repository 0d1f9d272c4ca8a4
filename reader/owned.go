package reader

// owned is an exclusively owned resource together with the function that
// releases it. Release runs at most once; an unset owned is a no-op.
type owned[T any] struct {
	value   T
	release func(T) error
	isSet   bool
}

func own[T any](value T, release func(T) error) owned[T] {
	return owned[T]{
		value:   value,
		release: release,
		isSet:   true,
	}
}

func (o *owned[T]) Get() T {
	return o.value
}

func (o *owned[T]) IsSet() bool {
	return o.isSet
}

func (o *owned[T]) Release() error {
	if !o.isSet {
		return nil
	}
	value := o.value
	var zeroValue T
	o.value = zeroValue
	o.isSet = false
	return o.release(value)
}
