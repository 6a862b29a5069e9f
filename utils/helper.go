package utils

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ProcessValidationErrors flattens a validator error into field -> failed-rule
// pairs for user-facing messages. Non-validation errors produce a nil map.
func ProcessValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewInt(n int) *int {
	return &n
}

func UniqueSlice[T comparable](slice []T) []T {
	inResult := make(map[T]bool)
	var result []T
	for _, elm := range slice {
		if _, ok := inResult[elm]; !ok {
			// if not exists in map, append it, otherwise do nothing
			inResult[elm] = true
			result = append(result, elm)
		}
	}
	return result
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

// MergeIntSlices merges two integer slices and removes duplicates,
// preserving first-seen order. Used to build whole-membership payloads.
func MergeIntSlices(slice1, slice2 []int) []int {
	elementMap := make(map[int]bool)
	mergedSlice := []int{}

	for _, elem := range slice1 {
		if !elementMap[elem] {
			elementMap[elem] = true
			mergedSlice = append(mergedSlice, elem)
		}
	}

	for _, elem := range slice2 {
		if !elementMap[elem] {
			elementMap[elem] = true
			mergedSlice = append(mergedSlice, elem)
		}
	}

	return mergedSlice
}

// RemoveIntFromSlice returns a copy of the slice without the given element.
func RemoveIntFromSlice(slice []int, remove int) []int {
	result := make([]int, 0, len(slice))
	for _, elem := range slice {
		if elem != remove {
			result = append(result, elem)
		}
	}
	return result
}

func AreIntSlicesEqual(slice1, slice2 []int) bool {
	if len(slice1) != len(slice2) {
		return false
	}

	// Compare order-insensitively without touching the inputs.
	s1 := append([]int(nil), slice1...)
	s2 := append([]int(nil), slice2...)

	sort.Ints(s1)
	sort.Ints(s2)

	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}

	return true
}

// IntersectIntSlices keeps the elements of slice1 that also appear in slice2,
// in slice1 order.
func IntersectIntSlices(slice1, slice2 []int) []int {
	inSecond := make(map[int]bool, len(slice2))
	for _, elem := range slice2 {
		inSecond[elem] = true
	}
	result := []int{}
	for _, elem := range slice1 {
		if inSecond[elem] {
			result = append(result, elem)
		}
	}
	return result
}
