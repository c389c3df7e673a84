package topological

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrCycleDetected = errors.New("cycle detected")

// CycleError lists the keys that could not be ordered.
type CycleError[K cmp.Ordered] struct {
	Keys []K
}

func (e *CycleError[K]) Error() string {
	return fmt.Sprintf("%v among %v", ErrCycleDetected, e.Keys)
}

func (e *CycleError[K]) Unwrap() error {
	return ErrCycleDetected
}

func has[M ~map[K]V, K comparable, V any](m M, key K) bool {
	_, ok := m[key]
	return ok
}

func sortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

// Sort orders values so every value comes after the values depFunc reports
// it depends on. Dependencies outside values are ignored. Ties are broken
// by key order, so the result is deterministic.
func Sort[T cmp.Ordered](values []T, depFunc func(T) []T) ([]T, error) {
	return SortFunc(values, func(val T) T { return val }, func(val T) []T { return depFunc(val) })
}

func SortFunc[T any, K cmp.Ordered](values []T, keyFunc func(T) K, depFunc func(T) []K) ([]T, error) {
	valuesByKey := make(map[K]T, len(values))
	for _, val := range values {
		valuesByKey[keyFunc(val)] = val
	}

	dependencies := make(map[K]map[K]struct{})
	dependents := make(map[K]map[K]struct{})

	for key, val := range valuesByKey {
		for _, dep := range depFunc(val) {
			if !has(valuesByKey, dep) {
				continue
			}

			if dependencies[key] == nil {
				dependencies[key] = make(map[K]struct{})
			}
			dependencies[key][dep] = struct{}{}

			if dependents[dep] == nil {
				dependents[dep] = make(map[K]struct{})
			}
			dependents[dep][key] = struct{}{}
		}
	}

	var ready []K
	for _, key := range sortedKeys(valuesByKey) {
		if !has(dependencies, key) {
			ready = append(ready, key)
		}
	}

	list := make([]T, 0, len(valuesByKey))

	for len(ready) > 0 {
		var key K
		key, ready = ready[0], ready[1:]
		list = append(list, valuesByKey[key])

		for _, dep := range sortedKeys(dependents[key]) {
			delete(dependencies[dep], key)
			if len(dependencies[dep]) == 0 {
				delete(dependencies, dep)
				ready = append(ready, dep)
			}
		}
	}

	if len(dependencies) > 0 {
		return nil, &CycleError[K]{Keys: sortedKeys(dependencies)}
	}

	return list, nil
}
