package utils

// Second drops the first of two results, e.g. Second(path.Split(p)).
func Second[T any](_ any, t T) T { return t }

// Unpack2 returns the first two elements of s, zero for any that is missing.
func Unpack2[Slice ~[]T, T any](s Slice) (first, second T) {
	switch len(s) {
	case 0:
	case 1:
		first = s[0]
	default:
		first, second = s[0], s[1]
	}

	return first, second
}
