// Package targetlist loads the newline-delimited wallet allow-list.
// The list is an optional policy filter applied to classified trades
// before anything acts on them; classification itself never consults it.
package targetlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

// List is a set of allowed wallet addresses.
type List struct {
	addresses map[string]struct{}
}

// Load reads one base58 address per line. Blank lines and lines
// starting with '#' are skipped; an address that fails base58 decoding
// is an error carrying its line number.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	l := &List{addresses: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		addr := strings.TrimSpace(scanner.Text())
		if addr == "" || strings.HasPrefix(addr, "#") {
			continue
		}
		raw, err := base58.Decode(addr)
		if err != nil {
			return nil, fmt.Errorf("target list line %d: invalid address %q: %w", line, addr, err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("target list line %d: address %q is %d bytes, want 32", line, addr, len(raw))
		}
		l.addresses[addr] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return l, nil
}

// Contains reports whether the address is on the list.
func (l *List) Contains(address string) bool {
	_, ok := l.addresses[address]
	return ok
}

// Len returns the number of listed addresses.
func (l *List) Len() int {
	return len(l.addresses)
}
