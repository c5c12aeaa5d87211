// Package simsig describes the signals known to the running platform.
//
// The table is built once at package initialization from the platform's own
// signal metadata and is read-only afterwards. Every other package in this
// module normalizes signal designators (names, numbers, os.Signal values)
// through it before touching process-wide signal state.
package simsig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownSignal is returned when a designator does not name a signal
// available on this platform.
var ErrUnknownSignal = errors.New("simsig: unknown signal")

// Identity is an immutable (name, number) pair for a platform signal.
type Identity struct {
	Name string
	Num  syscall.Signal

	// Catchable is false for signals whose disposition cannot be changed
	// (SIGKILL and SIGSTOP on unix).
	Catchable bool
}

// Signal returns the identity as an os.Signal.
func (id Identity) Signal() os.Signal { return id.Num }

func (id Identity) String() string { return id.Name }

type signalTable struct {
	byName map[string]Identity
	byNum  map[syscall.Signal]Identity
}

var table = newTable(platformSignals())

func newTable(ids []Identity) *signalTable {
	t := &signalTable{
		byName: make(map[string]Identity, len(ids)),
		byNum:  make(map[syscall.Signal]Identity, len(ids)),
	}
	for _, id := range ids {
		if _, dup := t.byNum[id.Num]; dup {
			continue
		}
		t.byNum[id.Num] = id
		t.byName[id.Name] = id
	}
	return t
}

// All returns every available signal ordered by number.
func All() []Identity {
	nums := maps.Keys(table.byNum)
	slices.Sort(nums)
	out := make([]Identity, 0, len(nums))
	for _, n := range nums {
		out = append(out, table.byNum[n])
	}
	return out
}

// Lookup finds a signal by name. Names are case-insensitive and the SIG
// prefix is optional, so "SIGTERM", "term" and "Term" are equivalent. A
// decimal string is treated as a signal number.
func Lookup(name string) (Identity, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, false
	}
	if n, err := strconv.Atoi(name); err == nil {
		return ByNumber(syscall.Signal(n))
	}
	name = strings.ToUpper(name)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	if id, ok := table.byName[name]; ok {
		return id, true
	}
	// aliases such as SIGIOT or SIGPOLL map onto a canonical number
	if n := aliasNum(name); n != 0 {
		return ByNumber(n)
	}
	return Identity{}, false
}

// ByNumber finds a signal by its platform number.
func ByNumber(n syscall.Signal) (Identity, bool) {
	id, ok := table.byNum[n]
	return id, ok
}

// Resolve normalizes a designator to its Identity. Accepted designators are
// string names or decimal numbers, int, syscall.Signal, os.Signal and
// Identity values.
func Resolve(designator any) (Identity, error) {
	var (
		id Identity
		ok bool
	)
	switch d := designator.(type) {
	case Identity:
		id, ok = ByNumber(d.Num)
	case string:
		id, ok = Lookup(d)
	case int:
		id, ok = ByNumber(syscall.Signal(d))
	case syscall.Signal:
		id, ok = ByNumber(d)
	case os.Signal:
		// non-syscall signals have no number to match against
		ok = false
	}
	if !ok {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnknownSignal, designator)
	}
	return id, nil
}

// Has reports whether designator names a signal available on this platform.
// It never changes any state.
func Has(designator any) bool {
	_, err := Resolve(designator)
	return err == nil
}
