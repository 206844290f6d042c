package aoe

type Set[T comparable] map[T]struct{}

func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s Set[T]) Add(value T) {
	s[value] = struct{}{}
}
func (s Set[T]) Remove(value T) {
	delete(s, value)
}
func (s Set[T]) Contains(value T) bool {
	_, ok := s[value]
	return ok
}
func (s Set[T]) Empty() bool {
	return len(s) == 0
}
func (s Set[T]) Size() int {
	return len(s)
}
func (s Set[T]) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// ForEach 遍历集合，f 返回 true 时提前结束
func (s Set[T]) ForEach(f func(value T) bool) {
	for k := range s {
		if f(k) {
			return
		}
	}
}

// Values 返回集合元素 (无序)
func (s Set[T]) Values() []T {
	res := make([]T, 0, len(s))
	for k := range s {
		res = append(res, k)
	}
	return res
}
