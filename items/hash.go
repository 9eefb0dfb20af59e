package items

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash identifies an item by content. It is the key of the runtime context.
type Hash uint64

const (
	typeSeed     = "type"
	functionSeed = "fn"
	instanceSeed = "inst"
	constSeed    = "const"
)

func hashOf(seed string, parts []string) Hash {
	d := xxhash.New()
	d.WriteString(seed)
	for _, part := range parts {
		d.WriteString("\x00")
		d.WriteString(part)
	}
	return Hash(d.Sum64())
}

func TypeHash(item Item) Hash {
	return hashOf(typeSeed, item.components)
}

func FunctionHash(item Item) Hash {
	return hashOf(functionSeed, item.components)
}

func ConstHash(item Item) Hash {
	return hashOf(constSeed, item.components)
}

// InstanceHash is the hash of an instance function name, used for method calls.
func InstanceHash(name string) Hash {
	return hashOf(instanceSeed, []string{name})
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}
