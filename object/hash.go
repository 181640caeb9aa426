package object

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/zoelang/zoe/errz"
)

// hashTag seeds hashes per type so that equal payloads of different types
// land in different buckets.
func hashTag(t Type) uint64 {
	return xxh3.HashString(string(t))
}

func hashString(s string) uint64 {
	return xxh3.HashString(s)
}

func hashBits(bits uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], bits)
	return xxh3.Hash(buf[:])
}

func unhashable(obj Object) error {
	return errz.Newf(errz.UnhashableType, "%s cannot be used as a table key", obj.Type())
}

func lenError(obj Object) error {
	return errz.Newf(errz.TypeError, "%s has no length", obj.Type())
}

// checkComparable fails for values with no equality definition.
func checkComparable(obj Object) error {
	if _, ok := obj.(*Function); ok {
		return errz.New(errz.TypeError, "functions cannot be compared")
	}
	return nil
}

// contains reports whether target is reachable from obj through array
// elements or table keys and values. Each composite is visited once.
func contains(obj, target Object, seen map[Object]struct{}) bool {
	if obj == target {
		return true
	}
	switch obj.(type) {
	case *Array, *Table:
		if _, ok := seen[obj]; ok {
			return false
		}
		seen[obj] = struct{}{}
	}
	switch obj := obj.(type) {
	case *Array:
		for _, item := range obj.items {
			if contains(item, target, seen) {
				return true
			}
		}
	case *Table:
		found := false
		obj.items.Each(func(k, v Object) bool {
			found = contains(k, target, seen) || contains(v, target, seen)
			return !found
		})
		return found
	}
	return false
}

func cyclic(container, value Object) error {
	switch value.(type) {
	case *Array, *Table:
	default:
		return nil
	}
	if contains(value, container, map[Object]struct{}{}) {
		return errz.Newf(errz.CyclicReference, "%s cannot contain itself", container.Type())
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
